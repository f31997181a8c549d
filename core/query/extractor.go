package query

import (
	"strings"

	"github.com/mkombe/loanlens/core/dataset"
)

// ExtractFilter runs the filter rule chain over the query text and builds
// an equality FilterMap for the direct-find path. An empty map means "no
// filtering" and is a valid result.
func ExtractFilter(text string) FilterMap {
	filter := FilterMap{}
	for _, rule := range filterRules {
		if field, value, ok := rule.apply(text); ok {
			filter[field] = value
		}
	}
	return filter
}

// ExtractPipeline runs the match and aggregation rule chains over the query
// text and builds an aggregation pipeline: at most one match stage followed
// by exactly one group stage.
func ExtractPipeline(text string) Pipeline {
	match := MatchStage{}
	for _, rule := range matchRules {
		if field, cond, ok := rule.apply(text); ok {
			match[field] = cond
		}
	}

	var pipeline Pipeline
	if len(match) > 0 {
		pipeline = append(pipeline, Stage{Match: match})
	}
	pipeline = append(pipeline, Stage{Group: selectAggregation(text)})
	return pipeline
}

// selectAggregation picks the group stage for the query, checked in fixed
// priority order: average, then total/sum, then keyed grouping, then the
// default record count. First match wins.
func selectAggregation(text string) *GroupStage {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "average") || strings.Contains(lower, "avg"):
		return &GroupStage{
			Aggregates: []AggregateField{
				{Output: OutputAverageLoan, Op: AggregateOpAvg, Field: dataset.FieldLoanAmount},
			},
		}

	case strings.Contains(lower, "total") || strings.Contains(lower, "sum"):
		field := dataset.FieldLoanAmount
		if strings.Contains(lower, "pending") {
			field = dataset.FieldPending
		}
		return &GroupStage{
			Aggregates: []AggregateField{
				{Output: OutputTotalAmount, Op: AggregateOpSum, Field: field},
			},
		}

	case strings.Contains(lower, "group"):
		var key []GroupKeyField
		if strings.Contains(lower, "region") {
			key = append(key, GroupKeyField{Output: dataset.FieldRegion, Field: dataset.FieldRegion})
		}
		if strings.Contains(lower, "gender") || strings.Contains(lower, "sex") {
			key = append(key, GroupKeyField{Output: dataset.FieldSex, Field: dataset.FieldSex})
		}
		if len(key) > 0 {
			return &GroupStage{
				Key: key,
				Aggregates: []AggregateField{
					{Output: OutputTotalAmount, Op: AggregateOpSum, Field: dataset.FieldLoanAmount},
					{Output: OutputCount, Op: AggregateOpCount},
				},
			}
		}
	}

	// No aggregation keyword recognized: count the (possibly matched)
	// records.
	return &GroupStage{
		Aggregates: []AggregateField{
			{Output: OutputCount, Op: AggregateOpCount},
		},
	}
}
