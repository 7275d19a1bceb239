package main

import (
	"context"
	"log/slog"
	"toolbox-backend/services/bindb"
	bindbdb "toolbox-backend/services/bindb/db"
	"toolbox-backend/services/shortener"
	shortenerdb "toolbox-backend/services/shortener/db"
)

func OpenShortenerStore(ctx context.Context, cfg ShortenerConfig) (shortener.Store, error) {
	if cfg.MongoUrl != "" {
		slog.InfoContext(ctx, "using mongodb shortener store", "database", cfg.MongoDatabase)
		store, err := shortener.NewMongoStore(ctx, cfg.MongoUrl, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	db, err := cfg.Database.OpenDB(shortenerdb.Schema)
	if err != nil {
		return nil, err
	}
	return shortener.NewSqlStore(db), nil
}

func OpenBinDb(ctx context.Context, cfg BinDbConfig) (bindb.Service, error) {
	db, err := cfg.Database.OpenDB(bindbdb.Schema)
	if err != nil {
		return bindb.Service{}, err
	}
	service := bindb.NewService(db)
	if cfg.Csv == "" {
		return service, nil
	}

	count, err := service.Count(ctx)
	if err != nil {
		return bindb.Service{}, err
	}
	if count > 0 {
		slog.InfoContext(ctx, "bin table already populated", "rows", count)
		return service, nil
	}
	imported, err := service.ImportFile(ctx, cfg.Csv)
	if err != nil {
		return bindb.Service{}, err
	}
	slog.InfoContext(ctx, "imported bin csv", "path", cfg.Csv, "rows", imported)
	return service, nil
}
