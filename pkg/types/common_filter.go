package types

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq        CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq     CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt        CommonFilterOperator = "lt"
	CommonFilterOperatorLte       CommonFilterOperator = "lte"
	CommonFilterOperatorGt        CommonFilterOperator = "gt"
	CommonFilterOperatorGte       CommonFilterOperator = "gte"
	CommonFilterOperatorDateRange CommonFilterOperator = "date_range"
	CommonFilterOperatorRange     CommonFilterOperator = "range"
	CommonFilterOperatorIn        CommonFilterOperator = "in"
)

type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
	Filters  []CommonFilter       `json:"filters"`
}

// column names, optionally followed by one jsonb accessor: data->>'ResultDesc'
var filterFieldPattern = regexp.MustCompile(`^[a-z_]+(->>?'[A-Za-z_]+')?$`)

// Valid reports whether the filter can be rendered. Fields are interpolated
// into SQL for jsonb accessors, so only plain identifiers are accepted.
func (f *CommonFilter) Valid() bool {
	return f != nil && len(f.Values) > 0 && filterFieldPattern.MatchString(f.Field)
}

// Build constructs a GORM expression.
func (f *CommonFilter) Build(builder clause.Builder) {
	if !f.Valid() {
		builder.WriteString("1=1")
		return
	}

	value := f.Values[0]

	switch f.Operator {
	case CommonFilterOperatorEq:
		// Handle JSON operator fields (containing -> or ->> operators)
		if strings.Contains(f.Field, "->") {
			// Use raw SQL expression for JSON operators
			clause.Expr{SQL: fmt.Sprintf("%s = ?", f.Field), Vars: []interface{}{value}}.Build(builder)
		} else {
			// Use standard equality for regular fields
			clause.Eq{Column: f.Field, Value: value}.Build(builder)
		}
	case CommonFilterOperatorNotEq:
		clause.NotConditions{Exprs: []clause.Expression{clause.Eq{Column: f.Field, Value: value}}}.Build(builder)
	case CommonFilterOperatorLt:
		clause.Lt{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorLte:
		clause.Lte{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorGt:
		clause.Gt{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorGte:
		clause.Gte{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorRange, CommonFilterOperatorDateRange:
		if len(f.Values) < 2 {
			builder.WriteString("1=1")
			return
		}

		clause.And(clause.Gte{Column: f.Field, Value: f.Values[0]}, clause.Lte{Column: f.Field, Value: f.Values[1]}).Build(builder)
	case CommonFilterOperatorIn:
		clause.IN{Column: f.Field, Values: f.Values}.Build(builder)
	default:
		builder.WriteString("1=1")
	}
}

type filtersWhere struct{ filters []*CommonFilter }

// FiltersWhere ANDs the filters into a single where expression.
func FiltersWhere(filters []*CommonFilter) clause.Expression {
	return filtersWhere{filters: filters}
}

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}
