package main

import (
	"context"
	"fmt"

	"github.com/eakarsu/parapilot/internal/config"
	"github.com/eakarsu/parapilot/internal/insights"
	"github.com/eakarsu/parapilot/internal/model"
	"github.com/eakarsu/parapilot/internal/remote"
	"github.com/eakarsu/parapilot/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initService wires the full insights component graph: storage, the durable
// snapshot cache, and the remote analysis client.
func initService(ctx context.Context) (*insights.Service, *storage.SQLiteStorage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	remoteCfg, err := config.LoadRemote()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	analyzer, err := remote.NewClient(remoteCfg.BaseURL, remoteCfg.AuthToken)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cache, err := insights.NewCacheStore(store.SnapshotKV())
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	svc, err := insights.NewService(insights.Deps{
		Storage: store,
		Remote:  analyzer,
		Cache:   cache,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return svc, store, nil
}

// resolvePeriod parses an optional YYYY-MM positional argument, defaulting to
// the current month.
func resolvePeriod(args []string) (model.PeriodKey, error) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	return model.ParsePeriod(raw)
}
