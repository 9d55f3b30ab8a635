// Package migration provides a registry-based database migration runner.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
//	}
//
// Run from the CLI:
//
//	stockpile migrate             // run all pending
//	stockpile migrate:rollback    // rollback last batch
//	stockpile migrate:status      // show status
package migration

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// migrationRecord is the GORM model stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "stockpile_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry.
// name should be a timestamp-prefixed string; call Register from an
// init() in each migration file so ordering follows registration.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by the provided gorm.DB.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) pending() ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max int
	err := r.db.Model(&migrationRecord{}).
		Select("COALESCE(MAX(batch), 0)").Scan(&max).Error
	return max, err
}

// Run applies every pending migration as one new batch.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	pending, err := r.pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, reg := range pending {
		logger.Info("migrating", "name", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration %q: %w", reg.name, err)
		}
		rec := migrationRecord{Name: reg.name, Batch: batch}
		if err := r.db.Create(&rec).Error; err != nil {
			return fmt.Errorf("record migration %q: %w", reg.name, err)
		}
	}
	return nil
}

// Rollback reverses the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Println("Nothing to rollback.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id DESC").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration %q is recorded but not registered", rec.Name)
		}
		logger.Info("rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("rollback %q: %w", rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// Status prints every registered migration with its run state.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return err
	}
	ranSet := make(map[string]int, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = rec.Batch
	}

	for _, reg := range registry {
		if batch, ok := ranSet[reg.name]; ok {
			fmt.Printf("  [ran, batch %d] %s\n", batch, reg.name)
		} else {
			fmt.Printf("  [pending]      %s\n", reg.name)
		}
	}
	return nil
}
