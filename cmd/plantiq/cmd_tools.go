package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mpiekarski/plantiq/src/app"
	"github.com/mpiekarski/plantiq/src/docstore"
)

// ToolsCmd prints the tool catalog as advertised to the reasoning engine.
type ToolsCmd struct{}

func (c *ToolsCmd) Run(_ *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	logger := newLogger(cli.LogLevel)

	store, err := docstore.OpenSQLite(cfg.Data.DocumentDB)
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := app.BuildRegistry(store, logger)
	if err != nil {
		return err
	}

	for _, spec := range registry.Specs() {
		summary := spec.Description
		if i := strings.IndexByte(summary, '\n'); i > 0 {
			summary = summary[:i]
		}
		fmt.Printf("%-28s %s\n", spec.Name, summary)
	}
	return nil
}
