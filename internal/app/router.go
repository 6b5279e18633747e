package app

import (
	"github.com/yungbote/consultancy-backend/internal/http"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}
	return http.NewServer(cfg.Addr(), http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		HealthHandler:     handlers.Health,
		ClientHandler:     handlers.Client,
		ContractHandler:   handlers.Contract,
		TaskHandler:       handlers.Task,
		WorkRecordHandler: handlers.WorkRecord,
		InvoiceHandler:    handlers.Invoice,
		EventStream:       handlers.Events,
	})
}
