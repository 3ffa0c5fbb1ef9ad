package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tempus/internal/model"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// A single connection keeps the in-memory database alive for the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.TimeSession{},
		&model.Note{},
	))
	return db
}

func strPtr(s string) *string {
	return &s
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Name: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, userID uint, name string) *model.Project {
	t.Helper()
	project := &model.Project{UserID: userID, Name: name}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createClosedSession(t *testing.T, db *gorm.DB, projectID, userID uint, start time.Time, duration time.Duration) *model.TimeSession {
	t.Helper()
	end := start.Add(duration)
	session := &model.TimeSession{
		ProjectID: projectID,
		UserID:    userID,
		StartTime: start,
		EndTime:   &end,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}
