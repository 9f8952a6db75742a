// Package db opens the relational store and attaches the tracing and
// metrics plugins every service shares.
package db

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"github.com/villagiolabs/villagio/internal/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Tracer *sdktrace.TracerProvider `optional:"true"`
}

func Open(p Params) (*gorm.DB, error) {
	dialector, err := dialectorFor(p.Config.Database)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := gdb.Use(otelgorm.NewPlugin(otelgorm.WithDBName("villagio"))); err != nil {
		return nil, fmt.Errorf("attach otelgorm plugin: %w", err)
	}

	if p.Config.Database.Driver != "sqlite" {
		if err := gdb.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          "villagio",
			RefreshInterval: 15,
		})); err != nil {
			return nil, fmt.Errorf("attach prometheus plugin: %w", err)
		}
	}

	p.Log.Info("database connected", zap.String("driver", p.Config.Database.Driver))
	return gdb, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
