package storage

import (
	"github.com/s-min-sys/tourneybe/internal/model"
)

type Roster struct {
	Groups []model.Group
}

func NewRoster() *Roster {
	roster := &Roster{}

	roster.valid()

	return roster
}

func (roster *Roster) valid() {
	if roster.Groups == nil {
		roster.Groups = make([]model.Group, 0)
	}
}
