package tinybasic

import (
	"fmt"
	"strings"
)

//
// All faults in the interpreter are one of two kinds.  Syntax
// errors come out of the scanner and parser, runtime errors out
// of the evaluator.  Both carry the line and column so the
// driver can point at the offending expression
//

type ErrorKind int

const (
	SyntaxErrorKind ErrorKind = iota
	RuntimeErrorKind
)

const (
	syntaxErrorName  = "Syntax Error"
	runtimeErrorName = "Runtime Error"
)

func (k ErrorKind) String() string {
	if k == SyntaxErrorKind {
		return syntaxErrorName
	}
	return runtimeErrorName
}

type BasicError struct {
	Kind    ErrorKind
	Line    int
	Column  int
	Message string
}

func (e *BasicError) Error() string {
	return fmt.Sprintf("%s: [Ln %d, Col %d] (%s)", e.Kind, e.Line,
		e.Column, e.Message)
}

func syntaxError(line, column int, message string) *BasicError {
	return &BasicError{
		Kind:    SyntaxErrorKind,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func runtimeError(line, column int, message string) *BasicError {
	return &BasicError{
		Kind:    RuntimeErrorKind,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

//
// Build the caret diagnostic shown to the user:
//
//   Runtime Error: Error #224 Division by zero.
//   20 LET D=A/0
//   ---------^
//

func buildErrorString(source, message string, column int) string {
	return fmt.Sprintf("%s\n%s\n%s^\n", message, source,
		strings.Repeat("-", column))
}
