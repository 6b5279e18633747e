package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpH "github.com/yungbote/consultancy-backend/internal/http/handlers"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
	"github.com/yungbote/consultancy-backend/internal/realtime"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Client     *httpH.ClientHandler
	Contract   *httpH.ContractHandler
	Task       *httpH.TaskHandler
	WorkRecord *httpH.WorkRecordHandler
	Invoice    *httpH.InvoiceHandler
	Events     *httpH.EventStreamHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, rdb *goredis.Client, hub *realtime.Hub, services Services) Handlers {
	log.Info("Wiring handlers...")
	var ping goredis.UniversalClient
	if rdb != nil {
		ping = rdb
	}
	return Handlers{
		Health:     httpH.NewHealthHandler(db, ping),
		Client:     httpH.NewClientHandler(services.Clients),
		Contract:   httpH.NewContractHandler(services.Contracts),
		Task:       httpH.NewTaskHandler(services.Tasks),
		WorkRecord: httpH.NewWorkRecordHandler(services.WorkRecords),
		Invoice:    httpH.NewInvoiceHandler(services.Invoices),
		Events:     httpH.NewEventStreamHandler(log, hub),
	}
}
