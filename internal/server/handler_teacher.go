package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgostarter/i/l"
)

// isStaff re-derives the authenticated flag from the session cookie on every
// call; staff handlers never share the verdict across requests.
func (s *Server) isStaff(c *gin.Context) bool {
	token, err := c.Cookie(sessionCookieName)
	if err != nil || token == "" {
		return false
	}

	return s.sessions.Verify(token)
}

func (s *Server) handleTeacherPage(c *gin.Context) {
	if s.isStaff(c) {
		c.Redirect(http.StatusFound, "/teacher/dashboard")

		return
	}

	s.renderPage(c, "login.html", loginView{})
}

func (s *Server) handleTeacherLogin(c *gin.Context) {
	var req LoginRequest

	_ = c.ShouldBind(&req)

	if s.cfg.TeacherPass == "" || req.Password != s.cfg.TeacherPass {
		s.renderPage(c, "login.html", loginView{Error: msgWrongPassword})

		return
	}

	token, err := s.sessions.Grant()
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("grant session failed")

		s.renderPage(c, "login.html", loginView{Error: msgServerError})

		return
	}

	c.SetCookie(sessionCookieName, token, int(sessionLifetime.Seconds()), "/", "", false, true)

	c.Redirect(http.StatusFound, "/teacher/dashboard")
}

func (s *Server) handleTeacherLogout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
		s.sessions.Revoke(token)
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)

	c.Redirect(http.StatusFound, "/teacher")
}
