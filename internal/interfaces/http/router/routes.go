package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goldbook/backend/internal/infrastructure/logger"
	"github.com/goldbook/backend/internal/interfaces/http/dto"
	"github.com/goldbook/backend/internal/interfaces/http/handler"
	"github.com/goldbook/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every handler of the local API
type Handlers struct {
	Items          *handler.ItemHandler
	Suppliers      *handler.SupplierHandler
	Karigars       *handler.KarigarHandler
	Ledger         *handler.LedgerHandler
	Reconciliation *handler.ReconciliationHandler
	KarigarOrders  *handler.KarigarOrderHandler
	Raini          *handler.RainiHandler
	Reports        *handler.ReportHandler
	Backups        *handler.BackupHandler
	Exports        *handler.ExportHandler
	System         *handler.SystemHandler
}

// EngineConfig holds the middleware settings of the engine
type EngineConfig struct {
	MaxBodySize int64
	CORSOrigins []string
	Tracing     middleware.TracingConfig
}

// DomainGroups lays out the API routes by domain
func DomainGroups(h Handlers) []*DomainGroup {
	items := NewDomainGroup("catalog", "")
	items.GET("/items", h.Items.List).
		POST("/items", h.Items.Create).
		POST("/items/bulk-delete", h.Items.BulkDelete).
		GET("/items/:id", h.Items.GetByID).
		PUT("/items/:id", h.Items.Update).
		DELETE("/items/:id", h.Items.Delete).
		GET("/gold-types", h.Items.ListGoldTypes).
		GET("/settings/:key", h.Items.GetSetting).
		PUT("/settings/:key", h.Items.SetSetting)

	suppliers := NewDomainGroup("suppliers", "/suppliers")
	suppliers.GET("", h.Suppliers.List).
		POST("", h.Suppliers.Create).
		GET("/:id", h.Suppliers.GetByID).
		PUT("/:id", h.Suppliers.Update).
		DELETE("/:id", h.Suppliers.Delete)

	karigars := NewDomainGroup("karigars", "/karigars")
	karigars.GET("", h.Karigars.List).
		POST("", h.Karigars.Create).
		GET("/:id", h.Karigars.GetByID).
		PUT("/:id", h.Karigars.Update).
		DELETE("/:id", h.Karigars.Delete)

	ledger := NewDomainGroup("ledger", "/ledger")
	ledger.POST("/drafts", h.Ledger.NewDraft).
		POST("/transactions", h.Ledger.Create).
		GET("/transactions/:ref/:seq", h.Ledger.Get).
		PUT("/transactions/:ref/:seq", h.Ledger.Edit).
		DELETE("/transactions/:ref/:seq", h.Ledger.Delete).
		GET("/entries", h.Ledger.ListEntries).
		PUT("/entries/:id", h.Ledger.UpdateEntry)

	reconciliation := NewDomainGroup("reconciliation", "/reconciliation")
	reconciliation.POST("/items/:id", h.Reconciliation.AdjustItem).
		POST("/suppliers", h.Reconciliation.AdjustSupplier)

	orders := NewDomainGroup("karigar-orders", "/karigar-orders")
	orders.GET("", h.KarigarOrders.List).
		POST("", h.KarigarOrders.Create).
		POST("/status", h.KarigarOrders.MarkStatus).
		GET("/:id", h.KarigarOrders.GetByID).
		POST("/:id/lines", h.KarigarOrders.TopUp).
		DELETE("/:id", h.KarigarOrders.Delete)

	raini := NewDomainGroup("raini", "/raini")
	raini.POST("/calculate", h.Raini.Calculate).
		GET("/totals", h.Raini.Totals)
	rainiOrders := raini.Group("raini-orders", "/orders")
	rainiOrders.GET("", h.Raini.List).
		POST("", h.Raini.Create).
		GET("/:id", h.Raini.GetByID).
		POST("/:id/complete", h.Raini.Complete).
		DELETE("/:id", h.Raini.Delete)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/inventory", h.Reports.Inventory).
		GET("/work-orders", h.Reports.WorkOrders).
		GET("/work-orders/detailed", h.Reports.WorkOrderDetails).
		GET("/freelancers", h.Reports.Freelancers).
		GET("/wastage", h.Reports.Wastage).
		GET("/monthly", h.Reports.Monthly)

	backups := NewDomainGroup("backups", "/backups")
	backups.GET("", h.Backups.List).
		POST("", h.Backups.Create).
		POST("/restore", h.Backups.Restore)

	exports := NewDomainGroup("exports", "/exports")
	exports.POST("/tables", h.Exports.ExportTables).
		POST("/supplier-ledger", h.Exports.ExportSupplierLedger).
		GET("/supplier-ledger.csv", h.Exports.SupplierLedgerCSV).
		GET("/supplier-statement", h.Exports.SupplierStatement)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []*DomainGroup{
		items, suppliers, karigars, ledger, reconciliation,
		orders, raini, reports, backups, exports, system,
	}
}

// NewEngine builds the gin engine with middleware and every API route
func NewEngine(cfg EngineConfig, log *zap.Logger, h Handlers) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.CORSOrigins...),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.GetString(logger.RequestIDKey)))
	})

	groups := DomainGroups(h)
	Mount(engine, groups...)
	for _, g := range groups {
		log.Debug("Mounted routes", zap.String("group", g.Name()), zap.Int("routes", g.RouteCount()))
	}
	return engine
}
