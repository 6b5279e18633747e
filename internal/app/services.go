package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type Services struct {
	Clients     services.ClientService
	Contracts   services.ContractService
	Tasks       services.TaskService
	WorkRecords services.WorkRecordService
	Invoices    services.InvoiceService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, pub events.Publisher, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Clients:     services.NewClientService(db, log, set.Clients, pub, metrics),
		Contracts:   services.NewContractService(db, log, set, pub, metrics),
		Tasks:       services.NewTaskService(db, log, set, pub, metrics),
		WorkRecords: services.NewWorkRecordService(db, log, set, pub, metrics, services.SystemClock, cfg.Location()),
		Invoices:    services.NewInvoiceService(db, log, set, pub, metrics, services.SystemClock, cfg.Location()),
	}
}
