// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"mangotango-admin/internal/batch"
	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DecisionNotifier dispatches the per-technician decision emails.
type DecisionNotifier interface {
	SendApproval(ctx context.Context, rec models.TechnicianRecord) (bool, error)
	SendRejectionWithReason(ctx context.Context, rec models.TechnicianRecord, reason string) (bool, error)
}

// BatchRunner runs one bulk email pass over all registrations.
type BatchRunner interface {
	Run(ctx context.Context) (*batch.Report, error)
}

// NotificationReader serves the current backlog for the read view.
type NotificationReader interface {
	FetchOrdered(ctx context.Context) ([]models.NotificationEntry, error)
}

// NotificationWriter records admin-facing events raised by the decision flow.
type NotificationWriter interface {
	Create(ctx context.Context, entry models.NotificationEntry) (string, error)
}

// ReportArchiver persists finished batch reports. Optional.
type ReportArchiver interface {
	Archive(ctx context.Context, report *batch.Report) (string, error)
}

// Server is the admin HTTP boundary.
type Server struct {
	cfg           config.ServerConfig
	logger        logger.Logger
	notifier      DecisionNotifier
	runner        BatchRunner
	notifications NotificationReader
	events        NotificationWriter
	archiver      ReportArchiver
}

// Option configures optional collaborators.
type Option func(*Server)

// WithEventWriter records a feed entry after each successful decision email.
func WithEventWriter(w NotificationWriter) Option {
	return func(s *Server) { s.events = w }
}

// WithArchiver persists each finished batch report.
func WithArchiver(a ReportArchiver) Option {
	return func(s *Server) { s.archiver = a }
}

func New(cfg config.ServerConfig, notifier DecisionNotifier, runner BatchRunner, notifications NotificationReader, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:           cfg,
		logger:        log.WithFields(map[string]interface{}{"component": "http-server"}),
		notifier:      notifier,
		runner:        runner,
		notifications: notifications,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router assembles the gin engine with CORS, method-not-allowed handling and
// all admin routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "Method not allowed"})
	})

	corsConfig := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.POST("/approve-tech", s.handleApprove)
	router.POST("/decline-tech", s.handleDecline)
	router.POST("/process-registrations", s.handleProcessRegistrations)
	router.GET("/notifications", s.handleNotifications)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.cfg.Address})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
