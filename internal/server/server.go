// ABOUTME: HTTP server wiring: routes, middleware, and graceful shutdown.
// ABOUTME: Read endpoints go through the Redis response cache when enabled.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/harperreed/trainer/internal/strava"
	"github.com/harperreed/trainer/internal/syncer"
)

// Server serves the training tracker API.
type Server struct {
	cfg      *config.Config
	repo     storage.Repository
	strava   *strava.Client
	syncer   *syncer.Syncer
	rollup   *syncer.Rollup
	analyzer *coach.Analyzer // nil when no Anthropic key is configured
	cache    *Cache
	metrics  *metrics
	logger   *zap.Logger
	engine   *gin.Engine
	now      func() time.Time
}

// New wires the server. analyzer may be nil; the AI endpoint then
// reports the feature as unavailable instead of failing at startup.
func New(cfg *config.Config, repo storage.Repository, stravaClient *strava.Client,
	sync *syncer.Syncer, rollup *syncer.Rollup, analyzer *coach.Analyzer,
	cache *Cache, logger *zap.Logger) *Server {

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		repo:     repo,
		strava:   stravaClient,
		syncer:   sync,
		rollup:   rollup,
		analyzer: analyzer,
		cache:    cache,
		metrics:  newMetrics(),
		logger:   logger,
		now:      time.Now,
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	r := gin.New()

	r.Use(recovery(s.logger))
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{s.cfg.AppBaseURL},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))

	api := r.Group("/api")
	{
		api.GET("/strava", s.stravaConnect)
		api.GET("/strava/callback", s.stravaCallback)
		api.POST("/strava/sync", s.stravaSync)
		api.POST("/cron/sync", s.cronSync)
		api.GET("/cron/sync", s.cronSync)

		api.POST("/ai/analyze", s.aiAnalyze)

		api.GET("/weeks", s.cached(s.listWeeks))
		api.GET("/weeks/current", s.cached(s.currentWeek))
		api.GET("/weeks/:id", s.cached(s.getWeek))
		api.POST("/weeks", s.createWeek)
		api.GET("/phases", s.cached(s.listPhases))
		api.GET("/phases/current", s.cached(s.currentPhase))
		api.POST("/phases", s.createPhase)
		api.POST("/workouts", s.createWorkout)
		api.GET("/progress", s.cached(s.progress))
		api.GET("/activities", s.cached(s.listActivities))
		api.GET("/workouts/today", s.workoutsToday)

		api.GET("/lifestyle", s.listLifestyle)
		api.POST("/lifestyle", s.createLifestyle)
		api.GET("/goals", s.listGoals)
		api.POST("/goals", s.createGoal)
	}

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// cached serves GET responses from Redis when possible. Handlers behind
// it stay cache-unaware; writes call Cache.InvalidateAll.
func (s *Server) cached(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cache.Enabled() {
			handler(c)
			return
		}

		key := c.Request.URL.RequestURI()
		if payload := s.cache.Get(c.Request.Context(), key); payload != nil {
			s.metrics.cacheHits.Inc()
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			c.Abort()
			return
		}
		s.metrics.cacheMisses.Inc()

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		handler(c)

		if c.Writer.Status() == http.StatusOK && len(w.body) > 0 {
			s.cache.Set(c.Request.Context(), key, w.body)
		}
	}
}

type captureWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}
