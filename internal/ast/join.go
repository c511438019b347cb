package ast

// JoinKind is the kind of a join.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "INNER"
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	case JoinFull:
		return "FULL"
	case JoinCross:
		return "CROSS"
	}
	return "UNKNOWN"
}

// ParseJoinKind resolves a lower- or upper-case join kind name.
func ParseJoinKind(name string) (JoinKind, bool) {
	switch name {
	case "inner", "INNER", "":
		return JoinInner, true
	case "left", "LEFT":
		return JoinLeft, true
	case "right", "RIGHT":
		return JoinRight, true
	case "full", "FULL":
		return JoinFull, true
	case "cross", "CROSS":
		return JoinCross, true
	}
	return 0, false
}

// JoinData is a joined table together with its ON condition.
//
// Construction never rejects an empty condition. A non-cross join whose
// condition is NoCondition is reported as MISSING_JOIN_CONDITION by
// Validate and by renderers.
type JoinData struct {
	table      Table
	conditions ConditionTree
}

// Table returns the joined table.
func (j JoinData) Table() Table { return j.table }

// Conditions returns the ON condition.
func (j JoinData) Conditions() ConditionTree { return j.conditions }

// Joinable is implemented by nodes that can be joined onto a Select.
type Joinable interface {
	On(cond Expression) JoinData
}

var _ Joinable = Table{}

// Join is a JoinData with its kind, in the order it was added to a Select.
type Join struct {
	Kind JoinKind
	Data JoinData
}

