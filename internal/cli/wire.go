package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/config"
	"github.com/justsurfingit/jobchat/internal/database"
	"github.com/justsurfingit/jobchat/internal/services"
)

// newDeps builds the completer, store and summarizer described by cfg. The
// returned cleanup closes the store.
func newDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (chat.Deps, func(), error) {
	completer, err := newCompleter(ctx, cfg, logger)
	if err != nil {
		return chat.Deps{}, nil, err
	}

	store, closer, err := newStore(ctx, cfg, logger)
	if err != nil {
		return chat.Deps{}, nil, err
	}

	cleanup := func() {
		if err := closer.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}

	return chat.Deps{
		Completer:  completer,
		Store:      store,
		Summarizer: services.NewSummaryService(completer, cfg.LLM.MaxTokens, logger.Named("summary")),
	}, cleanup, nil
}

func newCompleter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (chat.Completer, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case config.ProviderGemini:
		apiKey, err := cfg.LLM.Gemini.APIKey()
		if err != nil {
			return nil, err
		}
		return services.NewGeminiService(ctx, services.GeminiConfig{
			APIKey:       apiKey,
			Model:        cfg.LLM.Gemini.Model,
			MaxLogLength: cfg.Log.MaxLength,
		}, logger)

	case config.ProviderOpenRouter:
		apiKey, err := cfg.LLM.OpenRouter.APIKey()
		if err != nil {
			return nil, err
		}
		return services.NewOpenRouterClient(services.OpenRouterConfig{
			APIKey:       apiKey,
			BaseURL:      cfg.LLM.OpenRouter.BaseURL,
			Model:        cfg.LLM.OpenRouter.Model,
			SiteURL:      cfg.LLM.OpenRouter.Site,
			SiteName:     cfg.LLM.OpenRouter.Title,
			Timeout:      cfg.LLM.Timeout,
			MaxLogLength: cfg.Log.MaxLength,
		}, logger)
	}
	return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (chat.Store, io.Closer, error) {
	driver := strings.ToLower(cfg.Store.Driver)
	logger.Info("opening job store", zap.String("driver", driver))

	switch driver {
	case config.DriverFirestore:
		store, err := services.NewFirestoreStore(ctx, services.FirestoreConfig{
			ProjectID:       cfg.Store.Firestore.ProjectID,
			CredentialsFile: cfg.Store.Firestore.CredentialsFile,
			Collection:      cfg.Store.Firestore.Collection,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.DriverPostgres:
		db, err := database.Connect(cfg.Store.Postgres.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		store := services.NewJobService(db)
		return store, store, nil

	case config.DriverSQLite:
		store, err := services.OpenSQLiteStore(ctx, cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.DriverMemory:
		store := services.NewMemoryStore()
		return store, store, nil
	}
	return nil, nil, errors.New("unsupported store driver " + cfg.Store.Driver)
}
