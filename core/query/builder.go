package query

// PipelineBuilder provides a fluent API for constructing pipelines by hand,
// mainly for callers that bypass the extractor (and for tests).
type PipelineBuilder struct {
	pipeline Pipeline
}

// NewPipelineBuilder creates a new, empty pipeline builder instance.
func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{}
}

// Build returns the constructed pipeline.
func (pb *PipelineBuilder) Build() Pipeline {
	return pb.pipeline
}

// Match appends a match stage with the given conditions.
func (pb *PipelineBuilder) Match(stage MatchStage) *PipelineBuilder {
	pb.pipeline = append(pb.pipeline, Stage{Match: stage})
	return pb
}

// MatchEq appends a match stage with a single equality condition.
func (pb *PipelineBuilder) MatchEq(field string, value any) *PipelineBuilder {
	return pb.Match(MatchStage{
		field: {Operator: ComparisonOperatorEq, Value: value},
	})
}

// Group begins a group stage keyed by the given fields. Each field is its
// own output name; pass none for a single implicit group.
func (pb *PipelineBuilder) Group(keyFields ...string) *GroupStageBuilder {
	stage := &GroupStage{}
	for _, f := range keyFields {
		stage.Key = append(stage.Key, GroupKeyField{Output: f, Field: f})
	}
	return &GroupStageBuilder{parent: pb, stage: stage}
}

// GroupStageBuilder accumulates the aggregates of one group stage.
type GroupStageBuilder struct {
	parent *PipelineBuilder
	stage  *GroupStage
}

// Sum adds a sum aggregate over field, reported under output.
func (gb *GroupStageBuilder) Sum(output, field string) *GroupStageBuilder {
	gb.stage.Aggregates = append(gb.stage.Aggregates, AggregateField{Output: output, Op: AggregateOpSum, Field: field})
	return gb
}

// Avg adds an average aggregate over field, reported under output.
func (gb *GroupStageBuilder) Avg(output, field string) *GroupStageBuilder {
	gb.stage.Aggregates = append(gb.stage.Aggregates, AggregateField{Output: output, Op: AggregateOpAvg, Field: field})
	return gb
}

// Count adds a record-count aggregate reported under output.
func (gb *GroupStageBuilder) Count(output string) *GroupStageBuilder {
	gb.stage.Aggregates = append(gb.stage.Aggregates, AggregateField{Output: output, Op: AggregateOpCount})
	return gb
}

// End closes the group stage and returns to the pipeline builder.
func (gb *GroupStageBuilder) End() *PipelineBuilder {
	gb.parent.pipeline = append(gb.parent.pipeline, Stage{Group: gb.stage})
	return gb.parent
}
