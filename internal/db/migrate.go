package db

import (
	"fmt"

	"github.com/diewo77/go-growth/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the gorm schema for every model.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
