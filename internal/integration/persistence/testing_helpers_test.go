package persistence

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crm-suite/backend/internal/integration/persistence/model"
)

// newTestDB opens a private in-memory SQLite database with the CRM schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.LeadModel{},
		&model.CustomerModel{},
		&model.OrderModel{},
		&model.InvoiceModel{},
		&model.AppointmentModel{},
		&model.ReportDigestModel{},
	))

	return db
}
