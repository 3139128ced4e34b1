// Command resetdb откатывает все миграции, применяет их заново и создаёт администратора из конфига.
// Все данные теряются.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/app"
	"github.com/Freeeeeet/tutor_center/internal/config"
)

func main() {
	force := flag.Bool("force", false, "allow reset when ENV=production")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() && !*force {
		logger.Fatal("Refusing to reset a production database without -force")
	}

	ctx := context.Background()

	pool, err := app.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	if err := migrator.Reset(ctx); err != nil {
		logger.Fatal("Failed to reset database", zap.Error(err))
	}

	container := app.NewContainer(pool, cfg, logger)
	if err := app.BootstrapAdmin(ctx, cfg, container.Directory, logger); err != nil {
		logger.Fatal("Failed to seed admin", zap.Error(err))
	}

	logger.Info("Database reset complete")
}
