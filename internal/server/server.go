// Package server exposes the billing core over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/tirtalabs/tirta/internal/billing/domain"
	"github.com/tirtalabs/tirta/internal/config"
	customerdomain "github.com/tirtalabs/tirta/internal/customer/domain"
	financedomain "github.com/tirtalabs/tirta/internal/finance/domain"
	ledgerdomain "github.com/tirtalabs/tirta/internal/ledger/domain"
	overviewservice "github.com/tirtalabs/tirta/internal/overview/service"
	readingdomain "github.com/tirtalabs/tirta/internal/reading/domain"
	tariffdomain "github.com/tirtalabs/tirta/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Register),
)

type Server struct {
	log *zap.Logger

	tariffSvc   tariffdomain.Service
	customerSvc customerdomain.Service
	readingSvc  readingdomain.Service
	billingSvc  billingdomain.Service
	ledgerSvc   ledgerdomain.Service
	financeSvc  financedomain.Service
	overviewSvc *overviewservice.Service
}

type ServerParam struct {
	fx.In

	Log         *zap.Logger
	TariffSvc   tariffdomain.Service
	CustomerSvc customerdomain.Service
	ReadingSvc  readingdomain.Service
	BillingSvc  billingdomain.Service
	LedgerSvc   ledgerdomain.Service
	FinanceSvc  financedomain.Service
	OverviewSvc *overviewservice.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:         p.Log.Named("server"),
		tariffSvc:   p.TariffSvc,
		customerSvc: p.CustomerSvc,
		readingSvc:  p.ReadingSvc,
		billingSvc:  p.BillingSvc,
		ledgerSvc:   p.LedgerSvc,
		financeSvc:  p.FinanceSvc,
		overviewSvc: p.OverviewSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.metricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metricsHandler())

	api := router.Group("/api/v1")
	{
		api.GET("/tariffs", s.ListTariffs)
		api.POST("/tariffs", s.CreateTariff)
		api.GET("/tariffs/:id", s.GetTariff)
		api.PUT("/tariffs/:id", s.UpdateTariff)
		api.DELETE("/tariffs/:id", s.DeleteTariff)

		api.GET("/customers", s.ListCustomers)
		api.POST("/customers", s.CreateCustomer)
		api.GET("/customers/:id", s.GetCustomer)
		api.PUT("/customers/:id", s.UpdateCustomer)
		api.DELETE("/customers/:id", s.DeleteCustomer)

		api.GET("/readings", s.ListReadings)
		api.POST("/readings", s.RecordReading)
		api.GET("/readings/:id", s.GetReading)
		api.DELETE("/readings/:id", s.DeleteReading)

		api.GET("/bills", s.ListBills)
		api.GET("/bills/:id", s.GetBill)
		api.POST("/bills/:id/pay", s.PayBill)
		api.POST("/bills/:id/unpay", s.UnpayBill)

		api.GET("/transactions", s.ListTransactions)
		api.POST("/transactions", s.CreateTransaction)
		api.GET("/transactions/:id", s.GetTransaction)
		api.PUT("/transactions/:id", s.UpdateTransaction)
		api.DELETE("/transactions/:id", s.DeleteTransaction)

		api.GET("/reports/ledger", s.GetLedgerReport)
		api.GET("/reports/profit-loss", s.GetProfitAndLoss)
		api.GET("/reports/balance-sheet", s.GetBalanceSheet)
		api.GET("/reports/cash-flow", s.GetCashFlow)
		api.GET("/reports/journals/revenue", s.GetRevenueJournal)
		api.GET("/reports/journals/income", s.GetIncomeJournal)
		api.GET("/reports/journals/expense", s.GetExpenseJournal)

		api.GET("/overview", s.GetOverview)
	}

	return router
}

// Register binds the HTTP listener to the fx lifecycle.
func Register(lc fx.Lifecycle, s *Server, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
