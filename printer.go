package tinybasic

import (
	"fmt"
	"strings"
)

//
// A bracketed dump of the syntax tree, one nesting level per
// bracket pair.  Exists for parser tests and for diagnostic
// logging in the interpreter.  "10 LET A=1+2" comes out as
// "[Line# 10][LET [Var A] = [+ 1, 2]]"
//

type AstPrinter struct {
	scanner *Scanner
	parser  *Parser
	builder strings.Builder
}

func NewAstPrinter() *AstPrinter {
	return &AstPrinter{
		scanner: NewScanner(nil),
		parser:  NewParser(nil, nil),
	}
}

// Print scans, parses, and dumps a line of source.
func (ap *AstPrinter) Print(source string) (string, error) {
	tokens, err := ap.scanner.ScanTokens(source)
	if err != nil {
		return "", err
	}
	program, err := ap.parser.ParseTokens(tokens)
	if err != nil {
		return "", err
	}
	return ap.PrintNodes(program), nil
}

// PrintNodes dumps already parsed statements.
func (ap *AstPrinter) PrintNodes(program []Node) string {
	ap.builder.Reset()
	for _, item := range program {
		ap.emit(item)
	}
	return ap.builder.String()
}

func (ap *AstPrinter) add(s string) {
	ap.builder.WriteString(s)
}

func (ap *AstPrinter) emit(n Node) {
	switch v := n.(type) {
	case *LineNumber:
		ap.putBrackets("Line#", v.Value)
	case *PrintStmt:
		ap.putBrackets("PRINT", v.Args)
	case *PrintSeparator:
		ap.add(fmt.Sprintf("[%s]", v.Separator))
	case *Literal:
		ap.add(fmt.Sprintf("%d", v.Value))
	case *StringLiteral:
		ap.add(fmt.Sprintf("%q", v.Value))
	case *RemComment:
		// No space between REM and the comment, the scanner keeps
		// everything after the 'M'.
		ap.add(fmt.Sprintf("[REM%s]", v.Comment))
	case *LetStmt:
		ap.putBrackets("LET", v.Assign)
	case *Assignment:
		ap.emit(v.Variable)
		ap.add(" = ")
		ap.emit(v.Expr)
	case *Variable:
		ap.add(fmt.Sprintf("[Var %s]", v.Name))
	case *Unary:
		ap.putBrackets("Unary "+v.Operator.Lexeme, v.Expr)
	case *Binary:
		ap.putBrackets(v.Operator.Lexeme, v.Lhs, v.Rhs)
	case *Group:
		ap.putBrackets("Group", v.Expr)
	case *RandomExpr:
		ap.add("[RND(")
		ap.processPieces(v.Expr)
		ap.add(")]")
	case *UsrExpr:
		ap.add("[USR(")
		ap.processPieces(v.Address)
		if v.XReg != nil {
			ap.add(", ")
			ap.processPieces(v.XReg)
		}
		if v.AReg != nil {
			ap.add(", ")
			ap.processPieces(v.AReg)
		}
		ap.add(")]")
	case *GotoStmt:
		ap.putBrackets("GOTO", v.Target)
	case *GosubStmt:
		ap.putBrackets("GOSUB", v.Target)
	case *ReturnStmt:
		ap.add("[RETURN]")
	case *EndStmt:
		ap.add("[END]")
	case *ListStmt:
		ap.putBrackets("LIST", v.Start, v.End)
	case *IfStmt:
		ap.add("[IF (")
		ap.processPieces(v.Lhs)
		ap.add(fmt.Sprintf(" [%s] ", v.Operator.Lexeme))
		ap.processPieces(v.Rhs)
		ap.add(") [THEN ")
		ap.processPieces(v.Branch)
		ap.add("]]")
	case *ClearStmt:
		ap.add("[CLEAR]")
	case *InputStmt:
		vars := make([]Node, len(v.Variables))
		for i, item := range v.Variables {
			vars[i] = item
		}
		ap.putBrackets("INPUT", vars)
	case *RunStmt:
		if len(v.Args) > 0 {
			ap.putBrackets("RUN", v.Args)
		} else {
			ap.add("[RUN]")
		}
	}
}

func (ap *AstPrinter) putBrackets(name string, pieces ...any) {
	ap.add("[" + name + " ")
	ap.processPieces(pieces...)
	ap.add("]")
}

func (ap *AstPrinter) processPieces(args ...any) {
	for currArg, piece := range args {
		switch v := piece.(type) {
		case nil:
			ap.add("None")
		case []Node:
			if length := len(v); length > 0 {
				ap.add("(")
				for i, item := range v {
					ap.processPieces(item)
					if i < length-1 {
						ap.add(", ")
					}
				}
				ap.add(")")
			} else {
				ap.add("())")
			}
		case Node:
			ap.emit(v)
		case int:
			ap.add(fmt.Sprintf("%d", v))
		case string:
			ap.add(v)
		}
		if currArg < len(args)-1 {
			ap.add(", ")
		}
	}
}
