// Package query implements the two-stage loan query pipeline: a rule-based
// intent extractor that turns free-text questions into structured filters or
// aggregation pipelines, and an interpreter that executes those pipelines
// against the in-memory dataset.
package query

// FilterMap is an equality-only conjunctive constraint used for direct
// lookups: every key must match its value exactly.
type FilterMap map[string]any

// ComparisonOperator defines the set of operators usable in a match
// condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorEq  ComparisonOperator = "eq"
	ComparisonOperatorGt  ComparisonOperator = "gt"
	ComparisonOperatorGte ComparisonOperator = "gte"
	ComparisonOperatorLt  ComparisonOperator = "lt"
	ComparisonOperatorLte ComparisonOperator = "lte"
)

var supportedComparisonOperators = map[ComparisonOperator]struct{}{
	ComparisonOperatorEq:  {},
	ComparisonOperatorGt:  {},
	ComparisonOperatorGte: {},
	ComparisonOperatorLt:  {},
	ComparisonOperatorLte: {},
}

// IsSupported checks if a comparison operator is one of the supported set.
func (c ComparisonOperator) IsSupported() bool {
	_, ok := supportedComparisonOperators[c]
	return ok
}

// AggregateOp identifies an aggregate function of a group stage. The set is
// closed; the interpreter rejects anything else.
type AggregateOp string

// Supported aggregate functions.
const (
	AggregateOpSum   AggregateOp = "sum"
	AggregateOpAvg   AggregateOp = "avg"
	AggregateOpCount AggregateOp = "count"
)

var supportedAggregateOps = map[AggregateOp]struct{}{
	AggregateOpSum:   {},
	AggregateOpAvg:   {},
	AggregateOpCount: {},
}

// IsSupported checks if an aggregate function is one of the supported set.
func (a AggregateOp) IsSupported() bool {
	_, ok := supportedAggregateOps[a]
	return ok
}

// MatchCondition is a single comparison applied to one field of a record.
type MatchCondition struct {
	Operator ComparisonOperator `json:"operator"`
	Value    any                `json:"value"`
}

// MatchStage filters records conjunctively: a record survives iff every
// field's condition holds. It never mutates records.
type MatchStage map[string]MatchCondition

// GroupKeyField is one component of a composite group key. Output is the
// field name carried into the result records; Field is the record field the
// key value is read from.
type GroupKeyField struct {
	Output string `json:"output"`
	Field  string `json:"field"`
}

// AggregateField declares one aggregate output of a group stage. Field is
// ignored for count.
type AggregateField struct {
	Output string      `json:"output"`
	Op     AggregateOp `json:"op"`
	Field  string      `json:"field,omitempty"`
}

// GroupStage partitions its input by the key fields (an empty key means one
// implicit group over everything) and computes the declared aggregates per
// partition. Output records contain only key outputs and aggregate outputs;
// all other input fields are dropped.
type GroupStage struct {
	Key        []GroupKeyField  `json:"key,omitempty"`
	Aggregates []AggregateField `json:"aggregates"`
}

// Stage is a union of the two stage kinds; exactly one side is set.
type Stage struct {
	Match MatchStage  `json:"match,omitempty"`
	Group *GroupStage `json:"group,omitempty"`
}

// Pipeline is an ordered sequence of stages, executed strictly left to
// right. Each stage consumes the previous stage's output record sequence.
type Pipeline []Stage

// Output field names produced by the extractor's aggregation rules.
const (
	OutputAverageLoan = "average_loan"
	OutputTotalAmount = "total_amount"
	OutputCount       = "count"
)
