package query

import (
	"fmt"
	"strings"

	"github.com/mkombe/loanlens/core/dataset"
	"go.uber.org/zap"
)

// ExecutionError is the structural failure of a pipeline stage: an
// unsupported operator or aggregate, an incomparable value pair, or an
// aggregated field absent from every record of a non-empty partition. It is
// deterministic; re-running the same pipeline reproduces it.
type ExecutionError struct {
	Stage  int
	Detail string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("pipeline stage %d: %s", e.Stage, e.Detail)
}

// Interpreter executes aggregation pipelines over record sequences. It is
// an evaluator, not an optimizer: stages run strictly in order, each
// consuming the previous stage's output, with no reordering or planning.
type Interpreter struct {
	logger *zap.Logger
}

// NewInterpreter creates a new Interpreter instance.
func NewInterpreter(logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{logger: logger}
}

// Execute runs the pipeline against the input records and returns the final
// record sequence. The input records are never mutated.
func (it *Interpreter) Execute(pipeline Pipeline, records []dataset.Record) ([]dataset.Record, error) {
	current := records
	for i, stage := range pipeline {
		var err error
		switch {
		case stage.Match != nil:
			current, err = it.applyMatch(i, stage.Match, current)
		case stage.Group != nil:
			current, err = it.applyGroup(i, stage.Group, current)
		default:
			err = &ExecutionError{Stage: i, Detail: "stage is neither match nor group"}
		}
		if err != nil {
			return nil, err
		}
		it.logger.Debug("stage executed",
			zap.Int("stage", i),
			zap.Int("records", len(current)))
	}
	return current, nil
}

// applyMatch filters the records down to those satisfying every condition
// of the stage. Filtered-out records are permanently dropped.
func (it *Interpreter) applyMatch(stageIdx int, stage MatchStage, records []dataset.Record) ([]dataset.Record, error) {
	out := make([]dataset.Record, 0, len(records))
	for _, record := range records {
		keep := true
		for field, cond := range stage {
			passes, err := evaluateCondition(record, field, cond)
			if err != nil {
				return nil, &ExecutionError{Stage: stageIdx, Detail: err.Error()}
			}
			if !passes {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, record)
		}
	}
	return out, nil
}

// evaluateCondition applies one condition to one record. A missing field
// fails the condition rather than erroring.
func evaluateCondition(record dataset.Record, field string, cond MatchCondition) (bool, error) {
	value, present := record[field]

	switch cond.Operator {
	case ComparisonOperatorEq:
		return present && value == cond.Value, nil
	case ComparisonOperatorGt, ComparisonOperatorGte, ComparisonOperatorLt, ComparisonOperatorLte:
		if !present {
			return false, nil
		}
		order, err := compareValues(value, cond.Value)
		if err != nil {
			return false, fmt.Errorf("field %q: %w", field, err)
		}
		switch cond.Operator {
		case ComparisonOperatorGt:
			return order > 0, nil
		case ComparisonOperatorGte:
			return order >= 0, nil
		case ComparisonOperatorLt:
			return order < 0, nil
		default:
			return order <= 0, nil
		}
	default:
		return false, fmt.Errorf("unsupported comparison operator %q", cond.Operator)
	}
}

// compareValues orders a record value against a condition operand:
// lexicographically when the operand is a string (ISO dates rely on this),
// numerically otherwise.
func compareValues(value, operand any) (int, error) {
	if s, ok := operand.(string); ok {
		fs, ok := value.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T against string operand", value)
		}
		return strings.Compare(fs, s), nil
	}

	fv, okValue := ToFloat64(value)
	ov, okOperand := ToFloat64(operand)
	if !okValue || !okOperand {
		return 0, fmt.Errorf("cannot compare %T against %T", value, operand)
	}
	switch {
	case fv < ov:
		return -1, nil
	case fv > ov:
		return 1, nil
	default:
		return 0, nil
	}
}

// applyGroup partitions the records by the stage's key and computes every
// declared aggregate per partition. Partitions appear in the output in
// order of first appearance. An empty key means a single implicit group,
// which is emitted even over zero input records (with zero-valued
// aggregates).
func (it *Interpreter) applyGroup(stageIdx int, stage *GroupStage, records []dataset.Record) ([]dataset.Record, error) {
	for _, agg := range stage.Aggregates {
		if !agg.Op.IsSupported() {
			return nil, &ExecutionError{Stage: stageIdx, Detail: fmt.Sprintf("unsupported aggregate function %q", agg.Op)}
		}
	}

	if len(stage.Key) == 0 {
		out := dataset.Record{}
		if err := aggregatePartition(stageIdx, stage.Aggregates, records, out); err != nil {
			return nil, err
		}
		return []dataset.Record{out}, nil
	}

	partitions := make(map[string][]dataset.Record)
	keyValues := make(map[string][]any)
	var order []string

	for _, record := range records {
		parts := make([]string, len(stage.Key))
		values := make([]any, len(stage.Key))
		for j, key := range stage.Key {
			values[j] = record[key.Field]
			parts[j] = fmt.Sprintf("%v", values[j])
		}
		id := strings.Join(parts, "\x1f")
		if _, seen := partitions[id]; !seen {
			order = append(order, id)
			keyValues[id] = values
		}
		partitions[id] = append(partitions[id], record)
	}

	out := make([]dataset.Record, 0, len(order))
	for _, id := range order {
		result := dataset.Record{}
		for j, key := range stage.Key {
			result[key.Output] = keyValues[id][j]
		}
		if err := aggregatePartition(stageIdx, stage.Aggregates, partitions[id], result); err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// aggregatePartition computes each declared aggregate over one partition
// and writes the results into out. Records missing the aggregated field are
// skipped, but a field absent from every record of a non-empty partition is
// a structural error.
func aggregatePartition(stageIdx int, aggregates []AggregateField, records []dataset.Record, out dataset.Record) error {
	for _, agg := range aggregates {
		switch agg.Op {
		case AggregateOpCount:
			out[agg.Output] = len(records)

		case AggregateOpSum, AggregateOpAvg:
			var sum float64
			seen := 0
			for _, record := range records {
				value, ok := record[agg.Field]
				if !ok {
					continue
				}
				f, numeric := ToFloat64(value)
				if !numeric {
					return &ExecutionError{
						Stage:  stageIdx,
						Detail: fmt.Sprintf("field %q holds non-numeric value %v", agg.Field, value),
					}
				}
				sum += f
				seen++
			}
			if len(records) > 0 && seen == 0 {
				return &ExecutionError{
					Stage:  stageIdx,
					Detail: fmt.Sprintf("field %q is absent from every record in the partition", agg.Field),
				}
			}
			if agg.Op == AggregateOpSum {
				out[agg.Output] = sum
			} else if seen == 0 {
				out[agg.Output] = float64(0)
			} else {
				out[agg.Output] = sum / float64(seen)
			}

		default:
			return &ExecutionError{Stage: stageIdx, Detail: fmt.Sprintf("unsupported aggregate function %q", agg.Op)}
		}
	}
	return nil
}
