// Package migration runs and tracks schema migrations.
//
// Migration files live in database/migrations and self-register from init():
//
//	func init() {
//	    migration.Register("20260301000000_create_catalog_tables", &CreateCatalogTables{})
//	}
//
// Run from the CLI: `lidosole migrate` / `lidosole migrate:rollback`.
package migration

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/pkg/logger"
)

// Migration is the interface every migration implements.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord tracks applied migrations.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "lidosole_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. Names are
// timestamp-prefixed so chronological order equals registration order.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by db.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Up applies every pending migration in one batch.
func (r *Runner) Up() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	applied, err := r.appliedNames()
	if err != nil {
		return err
	}

	var maxBatch int
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0)").Scan(&maxBatch)
	batch := maxBatch + 1

	ran := 0
	for _, reg := range registry {
		if _, done := applied[reg.name]; done {
			continue
		}

		logger.Info("migration: applying", "name", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration %q: %w", reg.name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %q: %w", reg.name, err)
		}
		ran++
	}

	if ran == 0 {
		logger.Info("migration: nothing to migrate")
	}
	return nil
}

// Rollback reverses the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	var maxBatch int
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0)").Scan(&maxBatch)
	if maxBatch == 0 {
		return errors.New("migration: nothing to roll back")
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", maxBatch).Find(&records).Error; err != nil {
		return err
	}

	// Reverse chronological order inside the batch.
	sort.Slice(records, func(i, j int) bool { return records[i].Name > records[j].Name })

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: %q applied but not registered", rec.Name)
		}
		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration %q down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) appliedNames() (map[string]struct{}, error) {
	var records []migrationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("migration: load records: %w", err)
	}
	applied := make(map[string]struct{}, len(records))
	for _, rec := range records {
		applied[rec.Name] = struct{}{}
	}
	return applied, nil
}
