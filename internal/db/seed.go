package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-growth/internal/config"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates baseline data. It is safe to run on every start.
func Seed(ctx context.Context, conn *gorm.DB, admin config.AdminConfig) error {
	return SeedAdmin(ctx, conn, admin)
}

// SeedAdmin ensures the configured administrator exists and has the admin
// role. Nothing happens when email or password is empty. An existing
// account keeps its password.
func SeedAdmin(ctx context.Context, conn *gorm.DB, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	log := zerolog.Ctx(ctx)
	var user models.User
	err := conn.WithContext(ctx).Where("email = ?", admin.Email).First(&user).Error
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin {
			return nil
		}
		if err := conn.WithContext(ctx).Model(&user).UpdateColumn("role", models.RoleAdmin).Error; err != nil {
			return fmt.Errorf("promote admin %s: %w", admin.Email, err)
		}
		log.Info().Str("email", admin.Email).Msg("existing user promoted to admin")
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("find admin %s: %w", admin.Email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user = models.User{Email: admin.Email, Name: admin.Name, Password: string(hash), Role: models.RoleAdmin}
	if err := conn.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create admin %s: %w", admin.Email, err)
	}
	log.Info().Str("email", admin.Email).Msg("admin user created")
	return nil
}
