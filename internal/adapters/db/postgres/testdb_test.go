package postgres

import (
	"testing"

	authModel "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	projectModel "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/project/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// every new connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&authModel.User{},
		&authModel.RefreshToken{},
		&projectModel.Project{},
		&projectModel.Task{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
