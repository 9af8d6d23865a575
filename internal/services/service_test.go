// internal/services/service_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pharmatrace/pharmatrace-backend/internal/database"
	"github.com/pharmatrace/pharmatrace-backend/internal/models"
)

// setupTestDB opens a fresh in-memory database per test. A single connection
// is forced so every session sees the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedInitialData(db))

	return db
}

func registerTestParticipant(t *testing.T, registry *RegistryService, role models.ParticipantRole, address, name string) *models.Participant {
	t.Helper()

	participant, err := registry.RegisterParticipant(role, &RegisterParticipantRequest{
		Address: address,
		Name:    name,
		Place:   "Pune",
	})
	require.NoError(t, err)
	return participant
}
