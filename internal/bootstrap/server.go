package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aerodesk/aircheckin/api"
	"github.com/aerodesk/aircheckin/config"
	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/aerodesk/aircheckin/internal/metrics"
	"github.com/aerodesk/aircheckin/internal/repository"
	"github.com/aerodesk/aircheckin/internal/service/checkin"
	"github.com/aerodesk/aircheckin/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	m *metrics.Metrics,
	agents repository.AgentRepository,
	flightSvc flights.FlightUseCase,
	checkinSvc checkin.CheckInUseCase,
) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newHandler(cfg, m, agents, flightSvc, checkinSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info("http server started", "address", cfg.HTTP.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newHandler(
	cfg *config.Config,
	m *metrics.Metrics,
	agents repository.AgentRepository,
	flightSvc flights.FlightUseCase,
	checkinSvc checkin.CheckInUseCase,
) http.Handler {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID())
	if m != nil {
		router.Use(api.Observe(m))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	api.NewFlightHandler(flightSvc).Register(v1)
	api.NewPassengerHandler(checkinSvc).Register(v1)

	// Check-in operations require a resolved agent identity.
	staff := router.Group("/api/v1", api.RequireAgent(agents))
	api.NewCheckinHandler(checkinSvc).Register(staff)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/aircheckin.swagger.json"),
		)))
	}

	return router
}
