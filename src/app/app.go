// Package app wires the application: config, stores, tool catalog, provider,
// and the conversation driver.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mpiekarski/plantiq/src/config"
	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/names"
	"github.com/mpiekarski/plantiq/src/orchestrator"
	"github.com/mpiekarski/plantiq/src/provider"
	"github.com/mpiekarski/plantiq/src/storage"
	"github.com/mpiekarski/plantiq/src/tools/tool_aggregate"
	"github.com/mpiekarski/plantiq/src/tools/tool_applydelivery"
	"github.com/mpiekarski/plantiq/src/tools/tool_findmaterials"
	"github.com/mpiekarski/plantiq/src/tools/tool_findorders"
	"github.com/mpiekarski/plantiq/src/tools/tool_findpurchases"
	"github.com/mpiekarski/plantiq/src/tools/tool_getorder"
)

const systemPrompt = `You are a production assistant for a small manufacturing plant. You answer questions about production orders, purchases, and materials using the available tools.

Rules:
- Always ground answers in tool results. When a tool reports no matching records, say so; never invent orders, purchases, or quantities.
- Prefer the most selective filter available (order or purchase number first).
- Before committing a delivery document, run apply_delivery as a dry run, show the preview, and ask the user to confirm.
- Answer in the user's language.`

// App holds every initialized service.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    docstore.Store
	AuditDB  *storage.DB
	Registry *dispatch.Registry
	Driver   *orchestrator.Driver

	docStore *docstore.SQLiteStore
}

// New builds the full application from a loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	for _, path := range []string{cfg.Data.DocumentDB, cfg.Data.AuditDB} {
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	store, err := docstore.OpenSQLite(cfg.Data.DocumentDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	auditDB, err := storage.Open(cfg.Data.AuditDB)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	registry, err := BuildRegistry(store, logger)
	if err != nil {
		store.Close()
		auditDB.Close()
		return nil, err
	}

	apiKey, err := config.APIKey(cfg)
	if err != nil {
		store.Close()
		auditDB.Close()
		return nil, err
	}
	engine, err := provider.New(provider.Config{
		Type:    cfg.Provider.Type,
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.Provider.Model,
	})
	if err != nil {
		store.Close()
		auditDB.Close()
		return nil, err
	}

	driver := orchestrator.NewDriver(engine, registry, storage.NewRecorder(auditDB), logger, orchestrator.Options{
		SystemPrompt: systemPrompt,
		MaxRounds:    cfg.Conversation.MaxRounds,
		TurnTimeout:  cfg.Conversation.TurnTimeout.Std(),
		ToolTimeout:  cfg.Conversation.ToolTimeout.Std(),
		MaxTokens:    cfg.Conversation.MaxTokens,
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		AuditDB:  auditDB,
		Registry: registry,
		Driver:   driver,
		docStore: store,
	}, nil
}

// BuildRegistry registers the full tool catalog against a document store.
func BuildRegistry(store docstore.Store, logger *slog.Logger) (*dispatch.Registry, error) {
	users := names.NewUserResolver(store, logger)
	materials := names.NewMaterialResolver(store, logger)

	registry := dispatch.NewRegistry()
	registry.Use(dispatch.LoggingMiddleware(logger))

	builders := []func() (dispatch.Tool, error){
		func() (dispatch.Tool, error) { return tool_findorders.Tool(store, users, materials, logger) },
		func() (dispatch.Tool, error) { return tool_getorder.Tool(store, users, materials, logger) },
		func() (dispatch.Tool, error) { return tool_findpurchases.Tool(store, logger) },
		func() (dispatch.Tool, error) { return tool_findmaterials.Tool(store, logger) },
		func() (dispatch.Tool, error) { return tool_aggregate.Tool(store, logger) },
		func() (dispatch.Tool, error) { return tool_applydelivery.Tool(store, logger) },
	}
	for _, build := range builders {
		tool, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build tool: %w", err)
		}
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Close releases every resource held by the app.
func (a *App) Close() error {
	var firstErr error
	if a.docStore != nil {
		firstErr = a.docStore.Close()
	}
	if a.AuditDB != nil {
		if err := a.AuditDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
