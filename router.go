package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/menagerie-labs/boardroom/pkg/config"
	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/event"
	"github.com/menagerie-labs/boardroom/pkg/extract"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/handler"
	"github.com/menagerie-labs/boardroom/pkg/service"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

// Server owns the gin engine and its wiring.
type Server struct {
	ginEngine *gin.Engine
	cfg       *config.AppConfig
	logger    *slog.Logger
}

// NewServer builds the engine, middleware and routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	// CORS middleware: allow common localhost dev origins. Requests without
	// an Origin header are not browser CORS requests and pass through.
	ginEngine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			allowed := strings.HasPrefix(origin, "http://localhost") ||
				strings.HasPrefix(origin, "http://127.0.0.1") ||
				strings.HasPrefix(origin, "https://localhost") ||
				strings.HasPrefix(origin, "https://127.0.0.1")
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	server := &Server{
		ginEngine: ginEngine,
		cfg:       cfg,
		logger:    utils.GetLogger(),
	}
	if err := server.SetupRoutes(); err != nil {
		return nil, err
	}
	return server, nil
}

// SetupRoutes wires storage, the generator and all services onto the engine.
func (s *Server) SetupRoutes() error {
	dbPath, err := s.cfg.DatabasePath()
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	gdb, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	gen, err := generator.New(context.Background(), s.cfg)
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}
	s.logger.Info("generator ready",
		"provider", s.cfg.Provider(), "api_key", utils.MaskSensitiveString(s.cfg.APIKey()))

	store := service.NewConversationStore(gdb)
	artifacts := service.NewArtifactService(store, gen)
	boardroom := service.NewBoardroomService(store, gen, extract.NewTextExtractor(), artifacts)
	summaries := service.NewSummaryService(store, gen)
	simulation := service.NewSimulationService(gen)

	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Event notifications
	// /ws?events=conversation.message_added,conversation.artifact_created
	wsHandler := event.NewWSHandler()
	s.ginEngine.GET("/ws", wsHandler.Handle)

	// Conversation API
	// /api
	apiGroup := s.ginEngine.Group("/api")
	boardroomHandler := handler.NewBoardroomHandler(boardroom, artifacts, summaries, simulation)
	boardroomHandler.RegisterRoutes(apiGroup)

	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host(), s.cfg.Port())
	srv := &http.Server{Addr: addr, Handler: s.ginEngine}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("server listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
