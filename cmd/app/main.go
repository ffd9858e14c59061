package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookstore/cmd"
	httpadapter "bookstore/internal/adapters/in/http"
	"bookstore/internal/adapters/out/postgres"
	"bookstore/internal/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err = configs.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(configs.LogLevel)

	gormDB := mustGormOpen(configs)
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := mustRedis(configs)
	defer func() { _ = rdb.Close() }()

	app := cmd.NewCompositionRoot(configs, gormDB, rdb, logger)
	startWebServer(app, configs.HTTPPort, logger)
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}
	return gormDB
}

func mustRedis(configs cmd.Config) *goredis.Client {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("connection to redis at %s: %v", configs.RedisAddr, err)
	}
	return rdb
}

func startWebServer(app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	httpadapter.NewServer(app.HTTPHandlers(), logger).Register(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
