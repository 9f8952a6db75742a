package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	apikeydomain "github.com/villagiolabs/villagio/internal/apikey/domain"
	auditdomain "github.com/villagiolabs/villagio/internal/audit/domain"
	billingdomain "github.com/villagiolabs/villagio/internal/billing/domain"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/bootstrap"
	"github.com/villagiolabs/villagio/internal/clock"
	"github.com/villagiolabs/villagio/internal/config"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	db       *gorm.DB
	redis    *redis.Client
	registry *prometheus.Registry
	enforcer *casbin.Enforcer
	genID    *snowflake.Node
	clock    clock.Clock
	gate     bootstrap.SchemaGate

	villageSvc        villagedomain.Service
	apartmentSvc      apartmentdomain.Service
	bookingSvc        bookingdomain.Service
	paymentSvc        paymentdomain.Service
	serviceTypeSvc    servicetypedomain.Service
	serviceRequestSvc servicerequestdomain.Service
	utilitySvc        utilitydomain.Service
	billingSvc        billingdomain.Service
	apiKeySvc         apikeydomain.Service
	auditSvc          auditdomain.Service

	httpMetrics *httpMetrics
}

type Params struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Registry *prometheus.Registry
	Enforcer *casbin.Enforcer
	GenID    *snowflake.Node
	Clock    clock.Clock
	Gate     bootstrap.SchemaGate

	VillageSvc        villagedomain.Service
	ApartmentSvc      apartmentdomain.Service
	BookingSvc        bookingdomain.Service
	PaymentSvc        paymentdomain.Service
	ServiceTypeSvc    servicetypedomain.Service
	ServiceRequestSvc servicerequestdomain.Service
	UtilitySvc        utilitydomain.Service
	BillingSvc        billingdomain.Service
	APIKeySvc         apikeydomain.Service
	AuditSvc          auditdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:      p.Config,
		log:      p.Log.Named("server"),
		db:       p.DB,
		redis:    p.Redis,
		registry: p.Registry,
		enforcer: p.Enforcer,
		genID:    p.GenID,
		clock:    p.Clock,
		gate:     p.Gate,

		villageSvc:        p.VillageSvc,
		apartmentSvc:      p.ApartmentSvc,
		bookingSvc:        p.BookingSvc,
		paymentSvc:        p.PaymentSvc,
		serviceTypeSvc:    p.ServiceTypeSvc,
		serviceRequestSvc: p.ServiceRequestSvc,
		utilitySvc:        p.UtilitySvc,
		billingSvc:        p.BillingSvc,
		apiKeySvc:         p.APIKeySvc,
		auditSvc:          p.AuditSvc,

		httpMetrics: newHTTPMetrics(p.Registry),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.RequestID())
	r.Use(s.RequestLogger())
	r.Use(s.Metrics())

	r.GET("/healthz", s.Healthz)
	r.GET("/readyz", s.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(s.APIKeyRequired())
	api.Use(s.Authorize())
	api.Use(s.AuditTrail())

	api.POST("/villages", s.CreateVillage)
	api.GET("/villages", s.ListVillages)
	api.GET("/villages/:id", s.GetVillage)
	api.PATCH("/villages/:id", s.UpdateVillage)
	api.DELETE("/villages/:id", s.DeleteVillage)

	api.POST("/apartments", s.CreateApartment)
	api.GET("/apartments", s.ListApartments)
	api.GET("/apartments/:id", s.GetApartment)
	api.PATCH("/apartments/:id", s.UpdateApartment)
	api.DELETE("/apartments/:id", s.DeleteApartment)
	api.GET("/apartments/:id/financial-summary", s.GetApartmentFinancialSummary)

	api.POST("/bookings", s.CreateBooking)
	api.GET("/bookings", s.ListBookings)
	api.GET("/bookings/:id", s.GetBooking)
	api.PATCH("/bookings/:id", s.UpdateBooking)
	api.DELETE("/bookings/:id", s.DeleteBooking)

	api.POST("/payments", s.CreatePayment)
	api.GET("/payments", s.ListPayments)
	api.GET("/payments/:id", s.GetPayment)
	api.DELETE("/payments/:id", s.DeletePayment)

	api.POST("/payment-methods", s.CreatePaymentMethod)
	api.GET("/payment-methods", s.ListPaymentMethods)
	api.DELETE("/payment-methods/:id", s.DeletePaymentMethod)

	api.POST("/service-types", s.CreateServiceType)
	api.GET("/service-types", s.ListServiceTypes)
	api.GET("/service-types/:id", s.GetServiceType)
	api.DELETE("/service-types/:id", s.DeleteServiceType)
	api.PUT("/service-types/:id/prices", s.SetServiceTypePrice)
	api.GET("/service-types/:id/prices", s.ListServiceTypePrices)

	api.POST("/service-requests", s.CreateServiceRequest)
	api.GET("/service-requests", s.ListServiceRequests)
	api.GET("/service-requests/:id", s.GetServiceRequest)
	api.PATCH("/service-requests/:id", s.UpdateServiceRequest)
	api.DELETE("/service-requests/:id", s.DeleteServiceRequest)

	api.POST("/utility-readings", s.CreateUtilityReading)
	api.GET("/utility-readings", s.ListUtilityReadings)
	api.GET("/utility-readings/:id", s.GetUtilityReading)
	api.DELETE("/utility-readings/:id", s.DeleteUtilityReading)
	api.GET("/utility-readings-consistency", s.CheckUtilityConsistency)

	api.GET("/bills/summary", s.GetBillSummary)
	api.GET("/bills/apartment/:id", s.GetApartmentBills)
	api.GET("/bills/previous-years", s.GetPreviousYearsTotal)

	api.POST("/api-keys", s.CreateAPIKey)
	api.GET("/api-keys", s.ListAPIKeys)
	api.DELETE("/api-keys/:id", s.RevokeAPIKey)

	api.GET("/audit-logs", s.ListAuditLogs)
	api.GET("/audit-logs/export", s.ExportAuditLogs)

	return r
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(runHTTPServer),
)

func runHTTPServer(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner) {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
