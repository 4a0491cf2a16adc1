package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/salesmap/internal/config"
	"github.com/andresuchdata/salesmap/pkg/logger"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: required,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// initDB opens the database when --db-url is set. Without it the command
// runs without recording history.
func initDB(c *cli.Context) error {
	url := c.String("db-url")
	if url == "" {
		return nil
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	app := &cli.App{
		Name:  "salesreport",
		Usage: "Build the daily sales copper-cost report from ERP exports",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Generate a report from local workbook files",
				Flags:  append(reportFlags(), inputFileFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error { return runLocal(c, cfg) },
			},
			{
				Name:  "drive",
				Usage: "Generate a report from the exports in a Google Drive folder",
				Flags: append(reportFlags(),
					&cli.StringFlag{
						Name:     "folder-id",
						Usage:    "Drive folder holding the exports",
						Required: true,
						EnvVars:  []string{"DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Service account credentials JSON",
						EnvVars: []string{"GOOGLE_DRIVE_CREDENTIALS_JSON"},
					},
					&cli.StringFlag{
						Name:  "download-dir",
						Usage: "Also keep the fetched inputs in this directory",
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error { return runDrive(c, cfg) },
			},
			{
				Name:  "runs",
				Usage: "List recent report runs",
				Flags: []cli.Flag{
					newDBURLFlag(true),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Number of runs to show"},
				},
				Before: initDB,
				After:  closeDB,
				Action: listRuns,
			},
			{
				Name:  "migrate",
				Usage: "Apply a SQL migration file",
				Flags: []cli.Flag{
					newDBURLFlag(true),
					&cli.StringFlag{Name: "file", Value: "scripts/migrations/001_init.sql", Usage: "Migration file"},
				},
				Before: initDB,
				After:  closeDB,
				Action: migrate,
			},
			{
				Name:  "archive",
				Usage: "Inspect archived report workbooks in object storage",
				Subcommands: []*cli.Command{
					{
						Name:   "ls",
						Usage:  "List archived reports",
						Action: func(c *cli.Context) error { return listArchive(c, cfg) },
					},
					{
						Name:  "get",
						Usage: "Download an archived report",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "run-id", Required: true, Usage: "Run ID of the report"},
							&cli.StringFlag{Name: "out", Usage: "Destination path (defaults to <run-id>.xlsx)"},
						},
						Action: func(c *cli.Context) error { return getArchive(c, cfg) },
					},
				},
			},
			{
				Name:   "purge-cache",
				Usage:  "Drop every cached report workbook from Redis",
				Action: func(c *cli.Context) error { return purgeCache(c, cfg) },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("salesreport failed")
	}
}
