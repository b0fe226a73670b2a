package tinybasic

//
// The parsed representation of a Tiny BASIC line.  Every node
// records the line and column it came from so errors can point
// back into the source.  Consumers dispatch on the concrete type
// with a type switch; there are no behavior methods on the nodes
// themselves
//

type Node interface {
	Pos() (line, column int)
}

type nodeBase struct {
	Line   int
	Column int
}

func (n nodeBase) Pos() (int, int) {
	return n.Line, n.Column
}

//
// A line number at the front of a line.  Seeing one means the
// rest of the line is stored in the program rather than executed
//

type LineNumber struct {
	nodeBase
	Value int
}

type PrintStmt struct {
	nodeBase
	Args []Node
}

//
// The ',' and ';' print separators are kept in the PRINT argument
// list as nodes of their own
//

type PrintSeparator struct {
	nodeBase
	Separator string
}

type Literal struct {
	nodeBase
	Value int
}

type StringLiteral struct {
	nodeBase
	Value string
}

type RemComment struct {
	nodeBase
	Comment string
}

type Variable struct {
	nodeBase
	Name string
}

type Assignment struct {
	nodeBase
	Variable *Variable
	Expr     Node
}

type LetStmt struct {
	nodeBase
	Assign *Assignment
}

type Unary struct {
	nodeBase
	Operator Token
	Expr     Node
}

type Binary struct {
	nodeBase
	Lhs      Node
	Operator Token
	Rhs      Node
}

type Group struct {
	nodeBase
	Expr Node
}

type RandomExpr struct {
	nodeBase
	Expr Node
}

//
// USR(address[,xreg[,areg]]).  XReg and AReg are nil when not
// given
//

type UsrExpr struct {
	nodeBase
	Address Node
	XReg    Node
	AReg    Node
}

type GotoStmt struct {
	nodeBase
	Target Node
}

type GosubStmt struct {
	nodeBase
	Target Node
}

type ReturnStmt struct {
	nodeBase
}

type EndStmt struct {
	nodeBase
}

// Start and End are nil when LIST is given without parameters.
type ListStmt struct {
	nodeBase
	Start Node
	End   Node
}

type IfStmt struct {
	nodeBase
	Lhs      Node
	Operator Token
	Rhs      Node
	Branch   Node
}

type ClearStmt struct {
	nodeBase
}

type InputStmt struct {
	nodeBase
	Variables []*Variable
}

// Args is only populated for direct execution RUN statements.
type RunStmt struct {
	nodeBase
	Args []Node
}
