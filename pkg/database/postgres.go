package database

import (
	"log"

	"github.com/stayware/booking-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.Guest{},
		&models.Reservation{},
		&models.AvailabilityEntry{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	ApplyConstraints(db)

	return db
}

// ApplyConstraints installs the storage-level booking backstop: an
// exclusion constraint rejecting two index entries for the same room
// with overlapping half-open date ranges.
func ApplyConstraints(db *gorm.DB) {
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE room_availability
				ADD CONSTRAINT room_availability_no_overlap
				EXCLUDE USING gist (
					room_id WITH =,
					daterange(check_in, check_out) WITH &&
				);
		EXCEPTION WHEN duplicate_table OR duplicate_object THEN NULL;
		END $$;
	`)
}
