package store

import (
	"fmt"
	"strings"

	"github.com/diewo77/go-crm/internal/records"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func isDesc(sortType string) bool {
	return strings.EqualFold(strings.TrimSpace(sortType), "DESC")
}

// where applies every condition. Values inside one condition are OR-ed,
// except NotEqualTo where the record must differ from all of them.
func where(q *gorm.DB, sch *schema, conds []records.Condition) (*gorm.DB, *records.Envelope) {
	for _, cond := range conds {
		c, ok := sch.column(cond.FieldName)
		if !ok {
			return nil, unknownField(sch, cond.FieldName)
		}
		if len(cond.Values) == 0 {
			return nil, records.Failure(fmt.Sprintf("Condition on %s has no values", cond.FieldName))
		}
		col := clause.Column{Name: c.name}
		exprs := make([]clause.Expression, 0, len(cond.Values))
		for _, raw := range cond.Values {
			v, msg := coerce(c, raw)
			if msg != "" {
				return nil, records.Failure(fmt.Sprintf("%s: %s", c.label, msg))
			}
			switch cond.Operator {
			case records.OpEqualTo:
				exprs = append(exprs, clause.Eq{Column: col, Value: v})
			case records.OpNotEqualTo:
				exprs = append(exprs, clause.Neq{Column: col, Value: v})
			case records.OpGreaterThan:
				exprs = append(exprs, clause.Gt{Column: col, Value: v})
			case records.OpLessThan:
				exprs = append(exprs, clause.Lt{Column: col, Value: v})
			default:
				return nil, records.Failure(fmt.Sprintf("Unsupported operator %s", cond.Operator))
			}
		}
		if cond.Operator == records.OpNotEqualTo {
			q = q.Where(clause.And(exprs...))
		} else {
			q = q.Where(clause.Or(exprs...))
		}
	}
	return q, nil
}
