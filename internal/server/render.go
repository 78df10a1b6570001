package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgostarter/i/l"
)

//go:embed tmpl/*.html
var tmplFS embed.FS

var pageTmpl = template.Must(template.ParseFS(tmplFS, "tmpl/*.html"))

type loginView struct {
	Error string
}

type memberView struct {
	Name       string
	Form       string
	Year       string
	Experience string
	Past       string
	Email      string
	FeePaid    bool
}

type groupRowView struct {
	ID           string
	First        memberView
	Second       memberView
	HasSecond    bool
	GroupFeePaid bool
	CreatedAt    string
}

type dashboardView struct {
	Query string
	Count int
	Rows  []groupRowView
}

// renderPage executes into a buffer first so a template failure can still
// become a clean 500 instead of a half-written page.
func (s *Server) renderPage(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer

	if err := pageTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.WithFields(l.ErrorField(err), l.StringField("page", name)).
			Error("render page failed")

		c.String(http.StatusInternalServerError, msgServerError)

		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
