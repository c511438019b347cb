package ast

// TreeKind identifies the shape of a ConditionTree node.
type TreeKind int

const (
	// TreeNoCondition is the empty tree: always true, the AND identity.
	TreeNoCondition TreeKind = iota
	// TreeNegativeCondition is always false, the OR identity.
	TreeNegativeCondition
	// TreeSingle wraps one expression.
	TreeSingle
	// TreeAnd is a binary conjunction.
	TreeAnd
	// TreeOr is a binary disjunction.
	TreeOr
	// TreeNot negates its whole sub-tree.
	TreeNot
)

func (k TreeKind) String() string {
	switch k {
	case TreeNoCondition:
		return "NoCondition"
	case TreeNegativeCondition:
		return "NegativeCondition"
	case TreeSingle:
		return "Single"
	case TreeAnd:
		return "And"
	case TreeOr:
		return "Or"
	case TreeNot:
		return "Not"
	}
	return "Unknown"
}

// ConditionTree is a recursive boolean combination of expressions.
//
// And and Or nodes are strictly binary. Chaining a.And(b).And(c) builds
// And(And(a, b), c), so a renderer that parenthesizes every nested binary
// node reproduces the grouping the caller wrote without relying on
// operator precedence.
//
// The zero value is NoCondition. Children are heap-allocated and owned by
// their parent; nodes are never mutated after construction.
type ConditionTree struct {
	kind  TreeKind
	expr  Expression
	left  *ConditionTree
	right *ConditionTree
}

// NoCondition returns the empty tree (always true).
func NoCondition() ConditionTree {
	return ConditionTree{}
}

// NegativeCondition returns the always-false tree.
func NegativeCondition() ConditionTree {
	return ConditionTree{kind: TreeNegativeCondition}
}

// Single wraps one expression. A ConditionTree argument is returned as is.
func Single(e Expression) ConditionTree {
	if t, ok := e.(ConditionTree); ok {
		return t
	}
	return ConditionTree{kind: TreeSingle, expr: e}
}

// All folds exprs left-to-right with And, starting from NoCondition.
func All(exprs ...Expression) ConditionTree {
	tree := NoCondition()
	for _, e := range exprs {
		tree = tree.And(e)
	}
	return tree
}

// Any folds exprs left-to-right with Or, starting from NegativeCondition.
func Any(exprs ...Expression) ConditionTree {
	tree := NegativeCondition()
	for _, e := range exprs {
		tree = tree.Or(e)
	}
	return tree
}

func (ConditionTree) expression() {}

// Kind returns the node shape.
func (t ConditionTree) Kind() TreeKind { return t.kind }

// Expr returns the wrapped expression of a Single node, nil otherwise.
func (t ConditionTree) Expr() Expression { return t.expr }

// Left returns the left child of an And/Or node, or the operand of a Not.
func (t ConditionTree) Left() ConditionTree {
	if t.left == nil {
		return ConditionTree{}
	}
	return *t.left
}

// Right returns the right child of an And/Or node.
func (t ConditionTree) Right() ConditionTree {
	if t.right == nil {
		return ConditionTree{}
	}
	return *t.right
}

// IsEmpty reports whether t is NoCondition.
func (t ConditionTree) IsEmpty() bool { return t.kind == TreeNoCondition }

// And implements Conjuctive. NoCondition on either side reduces to the
// other operand.
func (t ConditionTree) And(other Expression) ConditionTree {
	o := asCondition(other)
	switch {
	case t.kind == TreeNoCondition:
		return o
	case o.kind == TreeNoCondition:
		return t
	}
	return binaryTree(TreeAnd, t, o)
}

// Or implements Conjuctive. NegativeCondition on either side reduces to
// the other operand.
func (t ConditionTree) Or(other Expression) ConditionTree {
	o := asCondition(other)
	switch {
	case t.kind == TreeNegativeCondition:
		return o
	case o.kind == TreeNegativeCondition:
		return t
	}
	return binaryTree(TreeOr, t, o)
}

// Not implements Conjuctive. It negates the entire tree: for t = a AND b,
// t.Not() is NOT (a AND b). The two constant trees swap.
func (t ConditionTree) Not() ConditionTree {
	switch t.kind {
	case TreeNoCondition:
		return NegativeCondition()
	case TreeNegativeCondition:
		return NoCondition()
	}
	inner := t
	return ConditionTree{kind: TreeNot, left: &inner}
}

func binaryTree(kind TreeKind, left, right ConditionTree) ConditionTree {
	return ConditionTree{kind: kind, left: &left, right: &right}
}

// Conjuctive is implemented by predicates that combine into condition
// trees.
type Conjuctive interface {
	And(other Expression) ConditionTree
	Or(other Expression) ConditionTree
	Not() ConditionTree
}

var (
	_ Conjuctive = ConditionTree{}
	_ Conjuctive = Compare{}
)
