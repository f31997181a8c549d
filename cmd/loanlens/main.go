// Command loanlens serves the natural-language loan query API. On first run
// it seeds a SQLite database with a mock loan portfolio; afterwards the
// dataset is loaded from the database into the in-memory store.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/mkombe/loanlens/agent"
	"github.com/mkombe/loanlens/api"
	"github.com/mkombe/loanlens/core/dataset"
	"github.com/mkombe/loanlens/core/query"
	"github.com/mkombe/loanlens/sqlite"
	"go.uber.org/zap"
)

func main() {
	var (
		addr    = flag.String("addr", ":8000", "listen address for the HTTP API")
		dbPath  = flag.String("db", "loans.db", "path to the SQLite loan database")
		seedN   = flag.Int("seed-count", 50, "number of mock loans to seed when the database is empty")
		seedVal = flag.Int64("seed", 42, "random seed for mock data generation")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	source, err := sqlite.Open(*dbPath, logger)
	if err != nil {
		logger.Fatal("failed to open dataset source", zap.Error(err))
	}
	defer source.Close()

	count, err := source.Count(ctx)
	if err != nil {
		logger.Fatal("failed to inspect dataset source", zap.Error(err))
	}
	if count == 0 {
		if err := source.Seed(ctx, dataset.GenerateMockLoans(*seedN, *seedVal)); err != nil {
			logger.Fatal("failed to seed dataset", zap.Error(err))
		}
	}

	records, err := source.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}

	store := dataset.NewStore(records, logger)
	engine := query.NewEngine(store, logger)

	queryAgent, err := agent.New(engine, logger)
	if err != nil {
		logger.Fatal("failed to create agent", zap.Error(err))
	}
	queryAgent.Subscribe(agent.QueryFailed, func(ctx context.Context, event agent.QueryEvent) error {
		logger.Warn("query failed",
			zap.String("tool", event.Tool),
			zap.String("query", event.Query),
			zap.Stringp("error", event.Error))
		return nil
	})

	router := api.NewRouter(queryAgent, logger)
	logger.Info("serving loan query API",
		zap.String("addr", *addr),
		zap.Int("records", store.Len()))
	if err := router.Run(*addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
