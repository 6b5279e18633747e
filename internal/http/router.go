package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/consultancy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/consultancy-backend/internal/http/middleware"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	HealthHandler     *httpH.HealthHandler
	ClientHandler     *httpH.ClientHandler
	ContractHandler   *httpH.ContractHandler
	TaskHandler       *httpH.TaskHandler
	WorkRecordHandler *httpH.WorkRecordHandler
	InvoiceHandler    *httpH.InvoiceHandler
	EventStream       *httpH.EventStreamHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Clients
		if cfg.ClientHandler != nil {
			api.POST("/clients", cfg.ClientHandler.Create)
			api.GET("/clients/:id", cfg.ClientHandler.Get)
		}

		// Contracts
		if cfg.ContractHandler != nil {
			api.POST("/contracts", cfg.ContractHandler.Create)
			api.GET("/contracts", cfg.ContractHandler.List)
			api.GET("/contracts/:id", cfg.ContractHandler.Get)
			api.PATCH("/contracts/:id/state", cfg.ContractHandler.UpdateState)
			api.GET("/contracts/:id/details", cfg.ContractHandler.Details)
		}

		// Tasks
		if cfg.TaskHandler != nil {
			api.POST("/tasks", cfg.TaskHandler.Create)
			api.GET("/tasks", cfg.TaskHandler.List)
			api.GET("/tasks/:id", cfg.TaskHandler.Get)
			api.PATCH("/tasks/:id", cfg.TaskHandler.Update)
		}

		// Work records
		if cfg.WorkRecordHandler != nil {
			api.POST("/work-records", cfg.WorkRecordHandler.Create)
			api.GET("/work-records/weekly", cfg.WorkRecordHandler.Weekly)
			api.DELETE("/work-records/:id", cfg.WorkRecordHandler.Delete)
		}

		// Invoices
		if cfg.InvoiceHandler != nil {
			api.POST("/invoices", cfg.InvoiceHandler.Create)
			api.GET("/invoices/:id", cfg.InvoiceHandler.Get)
			api.PATCH("/invoices/:id/state", cfg.InvoiceHandler.UpdateState)
		}

		// Live record-change feed
		if cfg.EventStream != nil {
			api.GET("/events/stream", cfg.EventStream.Stream)
		}
	}

	return r
}
