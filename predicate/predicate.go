/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import "strings"

// Op is a comparison operator applied to a single entity attribute.
type Op string

const (
	OpEq         Op = "="
	OpNe         Op = "<>"
	OpLt         Op = "<"
	OpLe         Op = "<="
	OpGt         Op = ">"
	OpGe         Op = ">="
	OpBeginsWith Op = "begins_with"
	OpContains   Op = "contains"
)

// Kind discriminates the node variants of a predicate tree.
type Kind int

const (
	// KindAll matches every entity. A nil *Predicate is equivalent.
	KindAll Kind = iota
	// KindCondition is a single field comparison.
	KindCondition
	// KindAnd matches when every operand matches.
	KindAnd
	// KindOr matches when at least one operand matches.
	KindOr
	// KindNot inverts its single operand.
	KindNot
)

// Condition is a leaf comparison over one attribute.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Predicate is a composable boolean expression over entity attributes.
// Callers build trees with the package constructors; store backends walk
// Kind, Condition and Operands to translate the tree into native filters.
type Predicate struct {
	Kind      Kind
	Condition *Condition
	Operands  []*Predicate
}

// All returns a predicate matching every entity.
func All() *Predicate {
	return &Predicate{Kind: KindAll}
}

// Where builds a single-condition predicate.
func Where(field string, op Op, value any) *Predicate {
	return &Predicate{
		Kind:      KindCondition,
		Condition: &Condition{Field: field, Op: op, Value: value},
	}
}

// Eq matches entities whose field equals value.
func Eq(field string, value any) *Predicate { return Where(field, OpEq, value) }

// Ne matches entities whose field differs from value.
func Ne(field string, value any) *Predicate { return Where(field, OpNe, value) }

// Lt matches entities whose field is less than value.
func Lt(field string, value any) *Predicate { return Where(field, OpLt, value) }

// Le matches entities whose field is less than or equal to value.
func Le(field string, value any) *Predicate { return Where(field, OpLe, value) }

// Gt matches entities whose field is greater than value.
func Gt(field string, value any) *Predicate { return Where(field, OpGt, value) }

// Ge matches entities whose field is greater than or equal to value.
func Ge(field string, value any) *Predicate { return Where(field, OpGe, value) }

// BeginsWith matches entities whose string field starts with prefix.
func BeginsWith(field, prefix string) *Predicate { return Where(field, OpBeginsWith, prefix) }

// Contains matches entities whose string field contains substr.
func Contains(field, substr string) *Predicate { return Where(field, OpContains, substr) }

// And combines predicates conjunctively. Nil operands are ignored; an empty
// conjunction matches all.
func And(ps ...*Predicate) *Predicate {
	return combine(KindAnd, ps)
}

// Or combines predicates disjunctively. Nil operands are ignored.
func Or(ps ...*Predicate) *Predicate {
	return combine(KindOr, ps)
}

// Not inverts a predicate. Not(nil) matches nothing.
func Not(p *Predicate) *Predicate {
	if p == nil {
		p = All()
	}
	return &Predicate{Kind: KindNot, Operands: []*Predicate{p}}
}

func combine(kind Kind, ps []*Predicate) *Predicate {
	operands := make([]*Predicate, 0, len(ps))
	for _, p := range ps {
		if p == nil {
			continue
		}
		operands = append(operands, p)
	}
	switch len(operands) {
	case 0:
		return All()
	case 1:
		return operands[0]
	}
	return &Predicate{Kind: kind, Operands: operands}
}

// And conjoins p with q. It is nil-safe on both sides, which lets a caller
// filter be ANDed onto a structurally required scoping predicate without the
// caller being able to displace it.
func (p *Predicate) And(q *Predicate) *Predicate {
	if p == nil {
		return q
	}
	if q == nil {
		return p
	}
	return And(p, q)
}

// Matches evaluates the predicate against an entity in process. A nil
// predicate or a KindAll node matches everything.
func (p *Predicate) Matches(entity any) bool {
	if p == nil {
		return true
	}
	switch p.Kind {
	case KindAll:
		return true
	case KindCondition:
		return p.Condition.matches(entity)
	case KindAnd:
		for _, op := range p.Operands {
			if !op.Matches(entity) {
				return false
			}
		}
		return true
	case KindOr:
		for _, op := range p.Operands {
			if op.Matches(entity) {
				return true
			}
		}
		return false
	case KindNot:
		return !p.Operands[0].Matches(entity)
	}
	return false
}

func (c *Condition) matches(entity any) bool {
	got, ok := Attr(entity, c.Field)
	if !ok {
		return false
	}

	switch c.Op {
	case OpEq, OpNe:
		eq, ok := equalValues(got, c.Value)
		if !ok {
			return false
		}
		if c.Op == OpEq {
			return eq
		}
		return !eq
	case OpLt, OpLe, OpGt, OpGe:
		cmp, ok := compareValues(got, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpLt:
			return cmp < 0
		case OpLe:
			return cmp <= 0
		case OpGt:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case OpBeginsWith:
		s, ok1 := got.(string)
		prefix, ok2 := c.Value.(string)
		return ok1 && ok2 && strings.HasPrefix(s, prefix)
	case OpContains:
		s, ok1 := got.(string)
		substr, ok2 := c.Value.(string)
		return ok1 && ok2 && strings.Contains(s, substr)
	}
	return false
}
