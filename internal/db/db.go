package db

import (
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salonops/salon-scheduler/internal/config"
	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Stylist{},
		&models.Offer{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// The slot-conflict guarantee lives here, not in application code:
	// partial unique indexes scoped to the statuses that occupy a slot.
	active := "'" + strings.Join(domain.NonTerminalStatuses(), "','") + "'"

	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_stylist_slot_active
        ON appointments (stylist_id, date, time_slot)
        WHERE status IN (` + active + `) AND stylist_id IS NOT NULL
    `)

	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_user_slot_active
        ON appointments (user_id, date, time_slot)
        WHERE status IN (` + active + `)
    `)

	return db
}
