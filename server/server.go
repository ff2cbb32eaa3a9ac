package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"art_academy_writer/cache"
	"art_academy_writer/generator"
)

// base64 image pairs make report requests large
const maxBodySize = "20M"

// Options configures the HTTP surface.
type Options struct {
	AcademyName        string
	DraftsTTL          time.Duration
	DisableRequestLogs bool
	// Clock drives draft timestamps and expiry; nil means the wall clock.
	Clock cache.Clock
}

type Server struct {
	echo    *echo.Echo
	agent   *generator.Agent
	drafts  *draftStore
	academy string
	logger  *zap.Logger
}

func New(agent *generator.Agent, opts Options, logger *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = cache.SystemClock{}
	}

	s := &Server{
		echo:    echo.New(),
		agent:   agent,
		drafts:  newDraftStore(cache.New[Draft](opts.DraftsTTL, clock), clock),
		academy: generator.PromptOptions{AcademyName: opts.AcademyName}.Academy(),
		logger:  logger,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	if !opts.DisableRequestLogs {
		s.echo.Use(requestLogger(logger))
	}
	s.echo.Use(middleware.BodyLimit(maxBodySize))

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/generate-daily-message", s.handleDailyMessage)
	api.POST("/generate-report", s.handleReport)

	drafts := api.Group("/report-drafts")
	drafts.GET("/:id", s.handleDraftGet)
	drafts.PUT("/:id", s.handleDraftUpdate)
	drafts.GET("/:id/export", s.handleDraftExport)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	return nil
}

// Shutdown waits for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	removed := s.drafts.purge()
	s.logger.Info("http server shutting down", zap.Int("expired_drafts_purged", removed))
	return s.echo.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request failed", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
