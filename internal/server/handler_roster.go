package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/tourneybe/internal/model"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cast"
)

func (s *Server) handleDashboard(c *gin.Context) {
	if !s.isStaff(c) {
		c.Redirect(http.StatusFound, "/teacher")

		return
	}

	q := c.Query("q")

	groups, err := s.storage.SearchGroups(q)
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("search groups failed")

		c.String(http.StatusInternalServerError, msgServerError)

		return
	}

	view := dashboardView{
		Query: q,
		Count: len(groups),
		Rows:  make([]groupRowView, 0, len(groups)),
	}

	for idx := range groups {
		view.Rows = append(view.Rows, groupRow(&groups[idx]))
	}

	s.renderPage(c, "dashboard.html", view)
}

func groupRow(group *model.Group) groupRowView {
	row := groupRowView{
		ID:           strconv.FormatUint(group.ID, 10),
		First:        memberColumn(group, 0),
		Second:       memberColumn(group, 1),
		GroupFeePaid: group.GroupFeePaid,
		CreatedAt:    group.CreatedAt.Format("2006-01-02 15:04"),
	}

	row.HasSecond = row.Second.Name != ""

	return row
}

func memberColumn(group *model.Group, idx int) memberView {
	if idx >= len(group.Members) {
		return memberView{}
	}

	member := &group.Members[idx]

	return memberView{
		Name:       member.Name,
		Form:       member.Form,
		Year:       member.Year,
		Experience: member.Experience,
		Past:       member.Past,
		Email:      member.Email,
		FeePaid:    member.FeePaid,
	}
}

func (s *Server) handleDelete(c *gin.Context) {
	if !s.isStaff(c) {
		c.String(http.StatusUnauthorized, msgUnauthorized)

		return
	}

	// an unparseable id casts to 0 and deletes nothing
	groupID := cast.ToUint64(c.Param("id"))

	if err := s.storage.DeleteGroup(groupID); err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("delete group failed")

		c.String(http.StatusInternalServerError, msgServerError)

		return
	}

	c.Redirect(http.StatusFound, "/teacher/dashboard")
}

func (s *Server) handleExportCSV(c *gin.Context) {
	if !s.isStaff(c) {
		c.String(http.StatusUnauthorized, msgUnauthorized)

		return
	}

	groups, err := s.storage.GetGroups()
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("export groups failed")

		c.String(http.StatusInternalServerError, msgServerError)

		return
	}

	c.Header("Content-Disposition", "attachment; filename=entries.csv")
	c.Data(http.StatusOK, "text/csv", exportCSV(groups))
}
