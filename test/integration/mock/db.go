package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	db     *Db
)

// Db is an in-memory SQLite database shared by every scenario of a run.
type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb opens the shared database on first use and migrates models.
func NewDb(models ...any) *Db {
	dbOnce.Do(func() {
		db = open(models)
	})
	return db
}

func open(models []any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	// One connection keeps the in-memory database alive and serializes writes.
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := dbConn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{
		DbConn: dbConn,
		models: models,
	}
}

// Reset removes every row, soft-deleted ones included.
func (d *Db) Reset() error {
	session := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
	for _, model := range d.models {
		if err := session.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}
