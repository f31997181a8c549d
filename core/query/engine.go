package query

import (
	"github.com/mkombe/loanlens/core/dataset"
	"go.uber.org/zap"
)

// Engine ties the extractor and the interpreter to one record store. It
// holds no per-query state: both entry points are pure over the store's
// contents and may be called concurrently.
type Engine struct {
	store  *dataset.Store
	interp *Interpreter
	logger *zap.Logger
}

// NewEngine creates an Engine over the given store.
func NewEngine(store *dataset.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		interp: NewInterpreter(logger),
		logger: logger,
	}
}

// TranslateAndFind extracts an equality filter from the query text and
// returns the matching records. It cannot fail: unmatched text simply
// yields an empty filter, which returns the full dataset.
func (e *Engine) TranslateAndFind(text string) []dataset.Record {
	filter := ExtractFilter(text)
	e.logger.Debug("extracted filter",
		zap.String("query", text),
		zap.Any("filter", filter))
	return e.store.Find(filter)
}

// TranslateAndAggregate extracts an aggregation pipeline from the query
// text and executes it over the full dataset. Structural pipeline failures
// surface as *ExecutionError.
func (e *Engine) TranslateAndAggregate(text string) ([]dataset.Record, error) {
	pipeline := ExtractPipeline(text)
	e.logger.Debug("extracted pipeline",
		zap.String("query", text),
		zap.Int("stages", len(pipeline)))
	return e.interp.Execute(pipeline, e.store.All())
}
