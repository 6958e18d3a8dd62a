package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tollgrid/tollgrid/internal/assessment"
	assessmentdomain "github.com/tollgrid/tollgrid/internal/assessment/domain"
	"github.com/tollgrid/tollgrid/internal/booking"
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	"github.com/tollgrid/tollgrid/internal/charge"
	chargedomain "github.com/tollgrid/tollgrid/internal/charge/domain"
	"github.com/tollgrid/tollgrid/internal/config"
	"github.com/tollgrid/tollgrid/internal/observability"
	obsmiddleware "github.com/tollgrid/tollgrid/internal/observability/logger"
	obsmetrics "github.com/tollgrid/tollgrid/internal/observability/metrics"
	obstracing "github.com/tollgrid/tollgrid/internal/observability/tracing"
	"github.com/tollgrid/tollgrid/internal/ratelimit"
	"github.com/tollgrid/tollgrid/internal/segment"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
	"github.com/tollgrid/tollgrid/internal/tariff"
	"github.com/tollgrid/tollgrid/internal/vehicle"
	vehicledomain "github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	tariff.Module,
	segment.Module,
	vehicle.Module,
	booking.Module,
	charge.Module,
	assessment.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	assessmentSvc  assessmentdomain.Service
	vehicleSvc     vehicledomain.Service
	segmentSvc     segmentdomain.Service
	bookingSvc     bookingdomain.Service
	chargeRepo     chargedomain.Repository
	passageLimiter *ratelimit.PassageLimiter
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	AssessmentSvc assessmentdomain.Service
	VehicleSvc    vehicledomain.Service
	SegmentSvc    segmentdomain.Service
	BookingSvc    bookingdomain.Service
	ChargeRepo    chargedomain.Repository

	PassageLimiter *ratelimit.PassageLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics       `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		assessmentSvc:  p.AssessmentSvc,
		vehicleSvc:     p.VehicleSvc,
		segmentSvc:     p.SegmentSvc,
		bookingSvc:     p.BookingSvc,
		chargeRepo:     p.ChargeRepo,
		passageLimiter: p.PassageLimiter,
		obsMetrics:     p.ObsMetrics,
	}
	svc.registerRoutes()
	return svc
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/passages", s.ReportPassage)

	v1.POST("/vehicles", s.RegisterVehicle)
	v1.POST("/vehicles/:id/deregister", s.DeregisterVehicle)
	v1.DELETE("/vehicles/:id", s.DeleteVehicle)

	v1.GET("/devices/:id/status", s.GetDeviceStatus)
	v1.PUT("/devices/:id/status", s.SetDeviceStatus)

	v1.GET("/segments/:id", s.GetSegment)
	v1.GET("/segments", s.ListSegments)

	v1.POST("/bookings", s.CreateBooking)
	v1.GET("/bookings", s.GetBookingForPlate)

	v1.GET("/charges/:id", s.GetCharge)
	v1.GET("/charges/:id/owner", s.GetChargeOwner)
}
