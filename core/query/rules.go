package query

import (
	"regexp"
	"strings"

	"github.com/mkombe/loanlens/core/dataset"
)

// Extraction is a best-effort heuristic, not a grammar: each rule is a pure
// function from the query text to an optional contribution, applied in a
// fixed order. Text that matches no rule simply yields no constraint, so an
// empty filter or match stage is a valid outcome. Extraction never fails.

var (
	userNameRe = regexp.MustCompile(`for\s+([A-Za-z\s]+)(?:\?|$|\s)`)
	regionRe   = regexp.MustCompile(`(?i)in\s+(\w+)\s+region`)
	currencyRe = regexp.MustCompile(`\bin\s+([A-Z]{3})\b`)
	dateRe     = regexp.MustCompile(`(?i)(before|after)\s+(\d{4})`)
)

// filterRule contributes at most one field/value pair to a FilterMap.
type filterRule struct {
	name  string
	apply func(text string) (field string, value any, ok bool)
}

// filterRules is the ordered rule chain for the direct-find path. Order
// matters only for documentation; each rule writes a distinct key.
var filterRules = []filterRule{
	{name: "user-name", apply: applyUserNameRule},
	{name: "region", apply: applyRegionRule},
	{name: "currency", apply: applyCurrencyRule},
	{name: "sex", apply: applySexRule},
}

// matchRule contributes at most one field condition to a MatchStage.
type matchRule struct {
	name  string
	apply func(text string) (field string, cond MatchCondition, ok bool)
}

// matchRules is the ordered rule chain for the aggregate path. It reuses
// the region/currency/sex rules as equality conditions and adds the
// year-granularity date rule. User names are deliberately not part of the
// aggregate path.
var matchRules = []matchRule{
	{name: "region", apply: asEquality(applyRegionRule)},
	{name: "currency", apply: asEquality(applyCurrencyRule)},
	{name: "sex", apply: asEquality(applySexRule)},
	{name: "disbursed-date", apply: applyDateRule},
}

// asEquality lifts a filter rule into a match rule with an implicit
// equality condition.
func asEquality(rule func(string) (string, any, bool)) func(string) (string, MatchCondition, bool) {
	return func(text string) (string, MatchCondition, bool) {
		field, value, ok := rule(text)
		if !ok {
			return "", MatchCondition{}, false
		}
		return field, MatchCondition{Operator: ComparisonOperatorEq, Value: value}, true
	}
}

// applyUserNameRule captures "for <words>", stopping at a question mark or
// end of string. The captured phrase is trimmed and keyed as user_name.
func applyUserNameRule(text string) (string, any, bool) {
	m := userNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", nil, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", nil, false
	}
	return dataset.FieldUserName, name, true
}

// applyRegionRule captures "in <word> region" case-insensitively and
// Title-cases the captured word.
func applyRegionRule(text string) (string, any, bool) {
	m := regionRe.FindStringSubmatch(text)
	if m == nil {
		return "", nil, false
	}
	word := m[1]
	return dataset.FieldRegion, strings.ToUpper(word[:1]) + strings.ToLower(word[1:]), true
}

// applyCurrencyRule captures "in <AAA>" where AAA is a bare three-letter
// uppercase token. A token immediately followed by "region" belongs to the
// region rule and is skipped, which gives the region rule priority when
// both could match the same span.
func applyCurrencyRule(text string) (string, any, bool) {
	for _, m := range currencyRe.FindAllStringSubmatchIndex(text, -1) {
		rest := strings.TrimLeft(text[m[1]:], " \t")
		if len(rest) >= len("region") && strings.EqualFold(rest[:len("region")], "region") {
			continue
		}
		return dataset.FieldCurrency, strings.ToUpper(text[m[2]:m[3]]), true
	}
	return "", nil, false
}

// applySexRule keys off gendered terms anywhere in the query. The female
// branch is checked first and wins when both families of terms are present;
// "women" itself contains "men", so the ordering is load-bearing.
func applySexRule(text string) (string, any, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "women") || strings.Contains(lower, "female") {
		return dataset.FieldSex, "Female", true
	}
	if strings.Contains(lower, "men") || strings.Contains(lower, "male") {
		return dataset.FieldSex, "Male", true
	}
	return "", nil, false
}

// applyDateRule captures "before <YYYY>" or "after <YYYY>" and turns it
// into an ordering condition on disbursed_date against YYYY-01-01. The
// operand stays a zero-padded ISO date string, so lexicographic comparison
// coincides with chronological order.
func applyDateRule(text string) (string, MatchCondition, bool) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return "", MatchCondition{}, false
	}
	boundary := m[2] + "-01-01"
	if strings.EqualFold(m[1], "before") {
		return dataset.FieldDisbursedDate, MatchCondition{Operator: ComparisonOperatorLt, Value: boundary}, true
	}
	return dataset.FieldDisbursedDate, MatchCondition{Operator: ComparisonOperatorGte, Value: boundary}, true
}
