package ast

// Order is the sort direction of an ORDER BY key.
type Order int

const (
	// Ascending is the default direction.
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// OrderDefinition is one ORDER BY key: an expression and its direction.
type OrderDefinition struct {
	Expr  Expression
	Order Order
}

// Asc orders by e ascending.
func Asc(e any) OrderDefinition {
	return OrderDefinition{Expr: exprOf(e), Order: Ascending}
}

// Desc orders by e descending.
func Desc(e any) OrderDefinition {
	return OrderDefinition{Expr: exprOf(e), Order: Descending}
}

// IntoOrderDefinition returns d unchanged.
func (d OrderDefinition) IntoOrderDefinition() OrderDefinition { return d }

// IntoOrderDefinition converts a node into an ORDER BY key. Nodes that do
// not carry a direction default to Ascending.
type IntoOrderDefinition interface {
	IntoOrderDefinition() OrderDefinition
}

// Orderable is implemented by nodes with explicit direction builders.
type Orderable interface {
	IntoOrderDefinition
	Ascend() OrderDefinition
	Descend() OrderDefinition
}

var (
	_ Orderable           = Column{}
	_ Orderable           = Function{}
	_ IntoOrderDefinition = OrderDefinition{}
)

// Ordering is the ORDER BY list. The first definition is the primary key.
// It is append-only: later keys never replace or reorder earlier ones, and
// duplicates are kept.
type Ordering []OrderDefinition

// Append returns a new Ordering with defs added after the existing keys.
func (o Ordering) Append(defs ...IntoOrderDefinition) Ordering {
	out := make(Ordering, len(o), len(o)+len(defs))
	copy(out, o)
	for _, d := range defs {
		out = append(out, d.IntoOrderDefinition())
	}
	return out
}
