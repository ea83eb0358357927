/*
Package predicate models caller-supplied filter and ordering expressions for
repository queries.

A Predicate is a boolean expression tree over entity attributes. Leaves
compare one attribute against a value; interior nodes combine subtrees with
And, Or and Not. A nil *Predicate matches everything, so optional filters
pass through untouched.

	open := predicate.Eq("Status", "OPEN")
	big := predicate.Ge("Total", 100.0)
	p := predicate.And(open, big)

Predicates evaluate in process through Matches, and store backends may
instead walk the exported tree (Kind, Condition, Operands) to translate it
into a native filter expression.

The method form of And exists for scoping: a repository can conjoin a
structurally required predicate (for example "orders of customer X") with
whatever the caller supplied, and the caller predicate can only ever narrow
the result.

	scope := predicate.Eq("CustomerID", parent.ID)
	effective := scope.And(callerFilter) // callerFilter may be nil

An Ordering is a list of sort terms applied with a stable sort. The absence
of an ordering means store-defined order; paging over an unordered result is
not guaranteed deterministic across calls.
*/
package predicate
