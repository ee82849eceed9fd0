package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/constants"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/middleware"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg    *models.Config
	router *mux.Router
	logger *logrus.Logger
	bridge service.MessageBridge
	server *http.Server
}

func NewServer(cfg *models.Config, bridge service.MessageBridge, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		logger: logger,
		bridge: bridge,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger))

	s.router.HandleFunc("/", s.handleStatus()).Methods(http.MethodGet)

	s.router.Handle("/webhook/event",
		middleware.WebhookObservability(s.logger, "event")(s.handleEvent())).Methods(http.MethodPost)
	s.router.Handle("/webhook/card",
		middleware.WebhookObservability(s.logger, "card")(s.handleCard())).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	host := s.cfg.Server.Host
	port := s.cfg.Server.Port
	if port == 0 {
		port = constants.DefaultServerPort
	}

	readTimeout := s.cfg.Server.ReadTimeoutSec
	if readTimeout <= 0 {
		readTimeout = constants.DefaultServerReadTimeoutSec
	}
	writeTimeout := s.cfg.Server.WriteTimeoutSec
	if writeTimeout <= 0 {
		writeTimeout = constants.DefaultServerWriteTimeoutSec
	}
	idleTimeout := s.cfg.Server.IdleTimeoutSec
	if idleTimeout <= 0 {
		idleTimeout = constants.DefaultServerIdleTimeoutSec
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
		IdleTimeout:  time.Duration(idleTimeout) * time.Second,
	}

	s.logger.WithField("addr", s.server.Addr).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
