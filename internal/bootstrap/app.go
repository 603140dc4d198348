package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/advisor"
	"tool-advisor/internal/catalog"
	"tool-advisor/internal/chat"
	"tool-advisor/internal/llm"
	"tool-advisor/internal/llm/gemini"
	"tool-advisor/internal/llm/openai"
	"tool-advisor/internal/reports"
	"tool-advisor/internal/services/health"
	"tool-advisor/internal/shared/config"
	"tool-advisor/internal/shared/server"
	"tool-advisor/internal/shared/storage/db"
	"tool-advisor/internal/shared/storage/object"
	localstore "tool-advisor/internal/shared/storage/object/local"
	s3store "tool-advisor/internal/shared/storage/object/s3"
	"tool-advisor/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	LLM      llm.Client
	Catalog  *catalog.Catalog
	Advisor  *advisor.Service
	Actions  *actions.Service
	Reports  *reports.Service
	Health   *health.Service
	Services map[string]any
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	client, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		LLM:      client,
		Catalog:  catalog.Default(),
		Services: map[string]any{},
	}
	buildServices(app)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"llm_provider": client.Provider(),
		"llm_model":    client.Model(),
		"database":     sqlDB != nil,
		"object_store": cfg.ObjectStoreType,
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// BuildLLM returns the configured provider wrapped with retry and JSON repair. A missing key
// degrades to the placeholder client in dev so the UI still gets fallback data.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	var (
		base llm.Client
		err  error
	)
	switch cfg.LLMProvider {
	case "none":
		return llm.PlaceholderClient{}, nil
	case "openai":
		base, err = openai.NewClient(openai.Options{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.LLMTemperature,
			Timeout:     timeout,
		})
	default:
		base, err = gemini.NewClient(ctx, gemini.Options{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			Timeout:     timeout,
		})
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.llm_unavailable", map[string]any{
				"provider": cfg.LLMProvider,
				"error":    err.Error(),
			})
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
	}
	return llm.WithJSONRepair(llm.WithRetry(base, 0)), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.database_memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_memory", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var reportRepo reports.Repo
	if app.DB != nil {
		reportRepo = &reports.PGRepo{DB: app.DB}
	} else {
		reportRepo = reports.NewMemoryRepo()
	}

	app.Advisor = advisor.NewService(app.LLM, app.Catalog)
	app.Actions = actions.NewService(app.Advisor, app.Catalog)
	app.Reports = reports.NewService(app.Actions, reportRepo, app.Store, app.LLM.Provider(), app.LLM.Model())

	_, placeholder := app.LLM.(llm.PlaceholderClient)
	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Health = health.NewService(pinger, app.LLM.Provider(), app.LLM.Model(), !placeholder)

	app.Services["advisor"] = app.Advisor
	app.Services["actions"] = app.Actions
	app.Services["reports"] = app.Reports

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Health:         health.NewHandler(app.Health),
		ActionsHandler: actions.NewHandler(app.Actions),
		CatalogHandler: catalog.NewHandler(app.Catalog),
		ChatHandler:    chat.NewHandler(app.Actions, app.Config.CORSAllowOrigin),
		ReportsHandler: reports.NewHandler(app.Reports),
	})
}
