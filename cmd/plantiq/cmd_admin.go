package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/mpiekarski/plantiq/src/config"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/storage"
)

// SeedCmd loads the demo dataset into the document store.
type SeedCmd struct{}

func (c *SeedCmd) Run(_ *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if err := ensureDir(cfg.Data.DocumentDB); err != nil {
		return err
	}

	store, err := docstore.OpenSQLite(cfg.Data.DocumentDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := docstore.Seed(context.Background(), store); err != nil {
		return err
	}
	fmt.Println("demo dataset loaded")
	return nil
}

// MigrateCmd applies pending audit database migrations.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(_ *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if err := ensureDir(cfg.Data.AuditDB); err != nil {
		return err
	}

	// Open applies pending migrations.
	db, err := storage.Open(cfg.Data.AuditDB)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("audit database ready at %s\n", cfg.Data.AuditDB)
	return nil
}

// LogCmd prints recent query history from the audit database.
type LogCmd struct {
	Limit int `default:"20" help:"Number of queries to show"`
}

func (c *LogCmd) Run(_ *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Data.AuditDB)
	if err != nil {
		return err
	}
	defer db.Close()

	queries, err := storage.ListRecentQueries(context.Background(), db.DB(), c.Limit)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		fmt.Println("no queries recorded yet")
		return nil
	}

	for _, q := range queries {
		status := "ok"
		if !q.Success {
			status = "failed"
		}
		fmt.Printf("%s  [%s]  rounds=%d tokens=%d\n  Q: %s\n", q.CreatedAt.Format("2006-01-02 15:04:05"), status, q.Rounds, q.TokensUsed, q.Question)
		if q.Response != "" {
			fmt.Printf("  A: %s\n", q.Response)
		}
		if q.Error != "" {
			fmt.Printf("  E: %s\n", q.Error)
		}
	}
	return nil
}

func loadConfig(cli *CLI) (*config.Config, error) {
	return config.NewLoader(afero.NewOsFs()).Load(cli.Config)
}

func ensureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0755)
}
