package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/atelierbooks/facturio/internal/catalog"
	catalogdomain "github.com/atelierbooks/facturio/internal/catalog/domain"
	"github.com/atelierbooks/facturio/internal/client"
	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	"github.com/atelierbooks/facturio/internal/company"
	companydomain "github.com/atelierbooks/facturio/internal/company/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/internal/document"
	documentdomain "github.com/atelierbooks/facturio/internal/document/domain"
	"github.com/atelierbooks/facturio/internal/observability"
	obslogger "github.com/atelierbooks/facturio/internal/observability/logger"
	obsmetrics "github.com/atelierbooks/facturio/internal/observability/metrics"
	"github.com/atelierbooks/facturio/internal/providers/email"
	"github.com/atelierbooks/facturio/internal/providers/pdf"
	"github.com/atelierbooks/facturio/internal/stock"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	fx.Provide(newSnowflakeNode),
	fx.Provide(registerGin),
	catalog.Module,
	client.Module,
	company.Module,
	stock.Module,
	email.Module,
	pdf.Module,
	document.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine      *gin.Engine
	cfg         config.Config
	catalogSvc  catalogdomain.Service
	clientSvc   clientdomain.Service
	companySvc  companydomain.Service
	stockSvc    stockdomain.Service
	documentSvc documentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	CatalogSvc  catalogdomain.Service
	ClientSvc   clientdomain.Service
	CompanySvc  companydomain.Service
	StockSvc    stockdomain.Service
	DocumentSvc documentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		catalogSvc:  p.CatalogSvc,
		clientSvc:   p.ClientSvc,
		companySvc:  p.CompanySvc,
		stockSvc:    p.StockSvc,
		documentSvc: p.DocumentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/catalog", s.ListCatalog)
	api.PUT("/catalog", s.ReplaceCatalog)

	api.GET("/clients", s.ListClients)
	api.PUT("/clients", s.ReplaceClients)

	api.GET("/company", s.GetCompany)
	api.PUT("/company", s.PutCompany)

	api.GET("/stock", s.ListStock)
	api.PUT("/stock", s.ReplaceStock)

	api.GET("/documents", s.ListDocuments)
	api.GET("/documents/:number", s.GetDocument)
	api.GET("/documents/:number/totals", s.GetDocumentTotals)
	api.POST("/documents/:number/convert", s.ConvertToInvoice)
	api.GET("/documents/:number/serials", s.GetSerialSlots)
	api.GET("/documents/:number/pdf", s.GetDocumentPDF)
	api.POST("/documents/:number/send", s.SendDocument)

	api.POST("/quotes", s.CreateQuote)
	api.PUT("/quotes/:number", s.UpdateQuote)
	api.PUT("/invoices/:number", s.SaveInvoice)

	api.POST("/pricing/preview", s.PreviewPricing)
}
