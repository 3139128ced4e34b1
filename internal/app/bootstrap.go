package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/config"
)

// AdminSeeder создаёт первого администратора
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, fullname, phone, password string) (bool, error)
}

// BootstrapAdmin создаёт администратора из конфига, если он задан и админов ещё нет
func BootstrapAdmin(ctx context.Context, cfg *config.Config, seeder AdminSeeder, logger *zap.Logger) error {
	if !cfg.HasBootstrapAdmin() {
		logger.Debug("Bootstrap admin not configured, skipping")
		return nil
	}

	created, err := seeder.EnsureAdmin(ctx, cfg.AdminFullname, cfg.AdminPhone, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	if created {
		logger.Info("Bootstrap admin created", zap.String("phone", cfg.AdminPhone))
	} else {
		logger.Info("Admin already exists, bootstrap skipped")
	}
	return nil
}
