package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/Vedant817/flow-pilot/backend-go/internal/cache"
	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/drive"
	"github.com/Vedant817/flow-pilot/backend-go/internal/ingest"
	"github.com/Vedant817/flow-pilot/backend-go/internal/repository/postgres"
	"github.com/Vedant817/flow-pilot/backend-go/internal/storage"
	"github.com/Vedant817/flow-pilot/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, postgres.Wrap(sqlx.NewDb(db, "pgx")))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialised")
	}
	return db, nil
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.LogLevel)

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare and load the order and inventory tables read by the forecasting engine",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create the inventory, orders and order_items tables",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "load",
				Usage: "Load inventory.csv and orders.csv (or .xlsx) from a local directory, bucket prefix or Drive folder",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "source",
						Usage:   "Where the seed files live: local, s3 or drive",
						Value:   "local",
						EnvVars: []string{"SEED_SOURCE"},
					},
					&cli.StringFlag{
						Name:    "location",
						Usage:   "Directory, object prefix or Drive folder ID (or folder path)",
						Value:   "./data/seeds",
						EnvVars: []string{"SEED_LOCATION"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return runLoad(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	return db.Migrate(c.Context)
}

func runLoad(c *cli.Context, cfg *config.Config) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	src, err := buildSource(c.Context, cfg, c.String("source"), c.String("location"))
	if err != nil {
		return err
	}

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("forecast cache unavailable, cached reports will expire on their own")
		forecastCache = cache.NewNoopForecastCache()
	}

	_, err = ingest.NewLoader(db, forecastCache, logger.Component("seed")).Load(c.Context, src)
	return err
}

func buildSource(ctx context.Context, cfg *config.Config, kind, location string) (ingest.Source, error) {
	switch strings.ToLower(kind) {
	case "local":
		return ingest.LocalSource{Dir: location}, nil
	case "s3":
		client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return ingest.ObjectStorageSource{Storage: client, Prefix: location}, nil
	case "drive":
		svc, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		folderID := location
		if strings.Contains(location, "/") {
			if folderID, err = svc.FindFolderByPath(ctx, location); err != nil {
				return nil, err
			}
		}
		return ingest.DriveSource{Drive: svc, FolderID: folderID}, nil
	}
	return nil, fmt.Errorf("unknown source %q (want local, s3 or drive)", kind)
}
