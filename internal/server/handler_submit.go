package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sgostarter/i/l"
)

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, "index.html", nil)
}

func (s *Server) handleSubmit(c *gin.Context) {
	groupID, code, msg := s.handleSubmitInner(c)

	switch code {
	case CodeSuccess:
		c.JSON(http.StatusOK, SubmitResponse{
			OK: true,
			ID: strconv.FormatUint(groupID, 10),
		})
	case CodeInternalError:
		c.JSON(http.StatusInternalServerError, SubmitResponse{
			OK:      false,
			Message: msgServerError,
		})
	default:
		c.JSON(http.StatusBadRequest, SubmitResponse{
			OK:      false,
			Message: CodeToMessage(code, msg),
		})
	}
}

func (s *Server) handleSubmitInner(c *gin.Context) (groupID uint64, code Code, msg string) {
	var req SubmitRequest

	err := c.ShouldBindJSON(&req)
	if err != nil {
		code = CodeProtocol
		msg = err.Error()

		return
	}

	members, groupFeePaid, code, msg := req.Resolve()
	if code != CodeSuccess {
		return
	}

	groupID, err = s.storage.NewGroup(members, groupFeePaid)
	if err != nil {
		// the caller only ever sees the generic message
		s.logger.WithFields(l.ErrorField(err)).Error("persist group failed")

		code = CodeInternalError
		msg = ""

		return
	}

	code = CodeSuccess

	return
}
