// db/postgres.go
package db

import (
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
)

var DB *gorm.DB

func InitPostgres() error {
	dsn := viper.GetString("postgres.dsn")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.AutoMigrate(&model.Policy{}, &model.Rule{}, &model.ToolIntegration{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	DB = db
	logger.Info("Successfully connected to Postgres")
	return nil
}

func ClosePostgres() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err == nil {
		sqlDB.Close()
	}
}
