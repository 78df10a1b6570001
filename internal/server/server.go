package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/tourneybe/internal/config"
	"github.com/s-min-sys/tourneybe/internal/storage"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
)

type Server struct {
	routineMan routineman.RoutineMan
	cfg        *config.Config
	logger     l.Wrapper

	sessions *sessionManager
	storage  storage.Storage
}

func NewServer(ctx context.Context, routineMan routineman.RoutineMan, cfg *config.Config, logger l.Wrapper) *Server {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if routineMan == nil {
		routineMan = routineman.NewRoutineMan(ctx, logger)
	}

	if cfg == nil || !cfg.Valid() {
		logger.Error("no valid config")

		return nil
	}

	s := &Server{
		routineMan: routineMan,
		cfg:        cfg,
		logger:     logger.WithFields(l.StringField(l.ClsKey, "Server")),
		sessions:   newSessionManager(cfg.SessionSignKey),
		storage:    storage.NewStorage(cfg.DataRoot, cfg.Debug, logger),
	}

	s.init()

	return s
}

func (s *Server) Wait() {
	s.routineMan.Wait()
}

func (s *Server) init() {
	s.routineMan.StartRoutine(s.httpRoutine, "httpRoutine")
}

func (s *Server) buildEngine() *gin.Engine {
	r := gin.New()
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(gin.Recovery())
	r.Use(requestid.New())

	r.Any("/healthy", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.GET("/", s.handleIndex)
	r.POST("/submit", s.handleSubmit)

	// every /teacher route re-checks the session itself, there is no
	// route-group gate to fall back on
	r.GET("/teacher", s.handleTeacherPage)
	r.POST("/teacher/login", s.handleTeacherLogin)
	r.GET("/teacher/logout", s.handleTeacherLogout)
	r.GET("/teacher/dashboard", s.handleDashboard)
	r.POST("/teacher/delete/:id", s.handleDelete)
	r.GET("/teacher/export.csv", s.handleExportCSV)

	return r
}

func (s *Server) httpRoutine(ctx context.Context, exiting func() bool) {
	logger := s.logger.WithFields(l.StringField(l.RoutineKey, "httpRoutine"))

	logger.Debug("enter")

	defer logger.Debug("leave")

	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := s.buildEngine()

	fnListen := func(listen string) {
		srv := &http.Server{
			Addr:        listen,
			ReadTimeout: time.Second,
			Handler:     r,
		}

		logger.WithFields(l.StringField("listen", listen)).Debug("start listen")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(l.ErrorField(err), l.StringField("listen", listen)).Error("listen failed")
		}
	}

	listens := strings.Split(s.cfg.Listen, " ")

	for idx := 0; idx < len(listens)-1; idx++ {
		go fnListen(listens[idx])
	}

	fnListen(listens[len(listens)-1])
}
