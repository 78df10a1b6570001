package storage

import (
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/s-min-sys/tourneybe/internal/model"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"golang.org/x/exp/slices"
)

type Storage interface {
	NewGroup(members []model.Member, groupFeePaid bool) (groupID uint64, err error)
	GetGroups() (groups []model.Group, err error)
	SearchGroups(q string) (groups []model.Group, err error)
	DeleteGroup(groupID uint64) error
}

func NewStorage(dataRoot string, debug bool, logger l.Wrapper) Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if dataRoot == "" {
		// no data root configured: entries only live in a scratch
		// directory and will not survive a redeploy
		dataRoot, _ = os.MkdirTemp("", "tourneybe")

		logger.WithFields(l.StringField("dataRoot", dataRoot)).
			Warn("dataRoot not set, entries will not be persisted")
	}

	_ = pathutils.MustDirExists(dataRoot)

	impl := &storageImpl{
		logger:   logger.WithFields(l.StringField(l.ClsKey, "storageImpl")),
		dataRoot: dataRoot,
		roster: mwf.NewMemWithFile[*Roster, mwf.Serial, mwf.Lock](
			NewRoster(), &mwf.JSONSerial{
				MarshalIndent: debug,
			}, &sync.RWMutex{}, "roster", rawfs.NewFSStorage(dataRoot)),
	}

	impl.init()

	return impl
}

type storageImpl struct {
	logger   l.Wrapper
	dataRoot string
	roster   *mwf.MemWithFile[*Roster, mwf.Serial, mwf.Lock]
}

func (impl *storageImpl) init() {
	_ = impl.roster.Change(func(roster *Roster) (newRoster *Roster, err error) {
		newRoster = roster

		newRoster.valid()

		return
	})
}

func (impl *storageImpl) NewGroup(members []model.Member, groupFeePaid bool) (groupID uint64, err error) {
	err = impl.roster.Change(func(roster *Roster) (newRoster *Roster, err error) {
		newRoster = roster

		group := model.Group{
			ID:           snowflake.ID(),
			Members:      members,
			GroupFeePaid: groupFeePaid,
			CreatedAt:    time.Now(),
		}

		if !group.Valid() {
			err = commerr.ErrInvalidArgument

			return
		}

		newRoster.Groups = append(newRoster.Groups, group)

		groupID = group.ID

		return
	})

	return
}

func (impl *storageImpl) GetGroups() (groups []model.Group, err error) {
	return impl.SearchGroups("")
}

func (impl *storageImpl) SearchGroups(q string) (groups []model.Group, err error) {
	var matcher *regexp.Regexp

	q = strings.TrimSpace(q)
	if q != "" {
		matcher, err = regexp.Compile("(?i)" + regexp.QuoteMeta(q))
		if err != nil {
			return
		}
	}

	impl.roster.Read(func(roster *Roster) {
		groups = make([]model.Group, 0, len(roster.Groups))

		for _, group := range roster.Groups {
			if matcher == nil || groupMatches(group, matcher) {
				groups = append(groups, group)
			}
		}
	})

	slices.SortFunc(groups, func(a, b model.Group) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			if a.ID == b.ID {
				return 0
			}

			if a.ID > b.ID {
				return -1
			}

			return 1
		}

		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}

		return 1
	})

	return
}

func groupMatches(group model.Group, matcher *regexp.Regexp) bool {
	for idx := range group.Members {
		member := &group.Members[idx]

		if matcher.MatchString(member.Name) || matcher.MatchString(member.Form) ||
			matcher.MatchString(member.Year) || matcher.MatchString(member.Email) {
			return true
		}
	}

	return false
}

func (impl *storageImpl) DeleteGroup(groupID uint64) error {
	return impl.roster.Change(func(roster *Roster) (newRoster *Roster, err error) {
		newRoster = roster

		for idx, group := range newRoster.Groups {
			if group.ID == groupID {
				newRoster.Groups = append(newRoster.Groups[:idx], newRoster.Groups[idx+1:]...)

				return
			}
		}

		// deleting an unknown id is a no-op

		return
	})
}
