package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&types.Client{},
		&types.Contract{},
		&types.Task{},
		&types.WorkRecord{},
		&types.Invoice{},
		&types.InvoiceItem{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}
