package tinybasic

import (
	"fmt"
	"sort"
	"strings"
)

//
// A small linter for stored programs.  It looks for the common
// mistakes: hard coded GOTO and GOSUB targets that do not exist,
// a missing END, a CLEAR inside a program, and variables that are
// read before anything assigns them.
//
// The uninitialized check is a single pass in line number order,
// not a flow analysis.  A read of a variable nothing has assigned
// yet goes on the potential list, and at the end any variable the
// program does assign somewhere is dropped from that list.  Strict
// mode skips the drop, which flags reads that only a backward
// branch could have initialized
//

type lintError struct {
	line int
	msg  string
}

type Linter struct {
	out             func(string)
	lines           *programStore
	currLine        *programLine
	initializedVars map[string]bool
	hadEndStatement bool
	errorList       []lintError
	potentialErrors map[string][]lintError
}

func NewLinter(out func(string)) *Linter {
	if out == nil {
		out = func(s string) { fmt.Print(s) }
	}
	return &Linter{
		out:             out,
		initializedVars: make(map[string]bool),
		potentialErrors: make(map[string][]lintError),
	}
}

func (lt *Linter) LintProgram(lines *programStore, strict bool) {
	lt.lines = lines

	lines.each(func(line *programLine) {
		lt.currLine = line
		lt.visit(line.stmt)
	})

	if !lt.hadEndStatement {
		lt.errorList = append(lt.errorList, lintError{
			line: maxLineNumber,
			msg:  "LINT #01: Missing END statement in the program.",
		})
	}

	if !strict {
		// A variable assigned anywhere in the program might have
		// been assigned before the read via some branch.
		for name := range lt.initializedVars {
			delete(lt.potentialErrors, name)
		}
	}

	names := make([]string, 0, len(lt.potentialErrors))
	for name := range lt.potentialErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lt.errorList = append(lt.errorList, lt.potentialErrors[name]...)
	}

	sort.SliceStable(lt.errorList, func(i, j int) bool {
		return lt.errorList[i].line < lt.errorList[j].line
	})

	for _, e := range lt.errorList {
		lt.out(e.msg + "\n")
	}
}

func (lt *Linter) addError(msg string, column int) {
	lt.errorList = append(lt.errorList, lintError{
		line: lt.currLine.number,
		msg:  buildErrorString(lt.currLine.source, msg, column),
	})
}

func (lt *Linter) visit(n Node) {
	switch v := n.(type) {
	case *PrintStmt:
		for _, arg := range v.Args {
			lt.visit(arg)
		}

	case *LetStmt:
		lt.visit(v.Assign)

	case *Assignment:
		// Visit the right side first so "A=A+1" on an untouched A
		// is still flagged.
		lt.visit(v.Expr)
		lt.initializedVars[strings.ToUpper(v.Variable.Name)] = true

	case *Variable:
		name := strings.ToUpper(v.Name)
		if !lt.initializedVars[name] {
			item := lintError{
				line: lt.currLine.number,
				msg: buildErrorString(lt.currLine.source, fmt.Sprintf(
					"LINT #04: Potentially uninitialized variable '%s'.",
					name), v.Column),
			}
			lt.potentialErrors[name] = append(lt.potentialErrors[name], item)
		}

	case *Unary:
		lt.visit(v.Expr)

	case *Binary:
		lt.visit(v.Lhs)
		lt.visit(v.Rhs)

	case *Group:
		lt.visit(v.Expr)

	case *RandomExpr:
		lt.visit(v.Expr)

	case *UsrExpr:
		if v.AReg != nil {
			lt.visit(v.AReg)
		}
		if v.XReg != nil {
			lt.visit(v.XReg)
		}

	case *GotoStmt:
		lt.checkBranchTarget("GOTO", v.Target)

	case *GosubStmt:
		lt.checkBranchTarget("GOSUB", v.Target)

	case *EndStmt:
		lt.hadEndStatement = true

	case *IfStmt:
		// Only the condition. The branch runs conditionally, so
		// flagging it would be mostly noise.
		lt.visit(v.Lhs)
		lt.visit(v.Rhs)

	case *ClearStmt:
		lt.addError("LINT #02: CLEAR must never be in a program.", v.Column)

	case *InputStmt:
		// Whatever the user types counts as initialization.
		for _, item := range v.Variables {
			lt.initializedVars[strings.ToUpper(item.Name)] = true
		}
	}
}

//
// Flag a hard coded branch target that is not a line in the
// program.  Computed targets cannot be checked without running
// the program
//

func (lt *Linter) checkBranchTarget(cmd string, target Node) {
	lt.visit(target)

	lit := literalTarget(target)
	if lit != nil && !lt.lines.has(lit.Value) {
		lt.addError(fmt.Sprintf("LINT #03: %s target not in program: '%d'.",
			cmd, lit.Value), lit.Column)
	}
}

func literalTarget(n Node) *Literal {
	switch v := n.(type) {
	case *Literal:
		return v
	case *Group:
		return literalTarget(v.Expr)
	}
	return nil
}
