package tinybasic

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

//
// The evaluator.  One method, one type switch.  Expressions
// produce a value, statements produce side effects and a zero
// value.  Every integer that lands anywhere is squeezed through
// shortInt first, so the whole interpreter behaves like a 16-bit
// machine no matter what the host arithmetic does
//

type value struct {
	isString bool
	number   int
	text     string
}

func (v value) display() string {
	if v.isString {
		return v.text
	}
	return strconv.Itoa(v.number)
}

func (in *Interpreter) evaluate(n Node) (value, error) {
	switch e := n.(type) {
	case *LineNumber, *PrintSeparator:
		// Handled by their parents, never executed on their own.
		return value{}, nil

	case *Literal:
		return value{number: e.Value}, nil

	case *StringLiteral:
		return value{isString: true, text: e.Value}, nil

	case *RemComment:
		return value{isString: true, text: e.Comment}, nil

	case *PrintStmt:
		return value{}, in.execPrint(e)

	case *LetStmt:
		_, err := in.evaluate(e.Assign)
		return value{}, err

	case *Assignment:
		result, err := in.evaluate(e.Expr)
		if err != nil {
			return value{}, err
		}
		in.symbols.Set(strings.ToUpper(e.Variable.Name), shortInt(result.number))
		return value{}, nil

	case *Variable:
		name := strings.ToUpper(e.Name)
		symbol := in.symbols.Get(name)
		if !symbol.Initialized {
			return value{}, runtimeError(e.Line, e.Column, fmt.Sprintf(
				"Error #336: Accessing uninitialized variable '%s'.", name))
		}
		return value{number: symbol.Value}, nil

	case *Unary:
		right, err := in.evaluate(e.Expr)
		if err != nil {
			return value{}, err
		}
		result := right.number
		if e.Operator.Kind == MINUS {
			result = -result
		} else if result < 0 {
			result = -result
		}
		return value{number: shortInt(result)}, nil

	case *Binary:
		return in.execBinary(e)

	case *Group:
		return in.evaluate(e.Expr)

	case *RandomExpr:
		bound, err := in.evaluate(e.Expr)
		if err != nil {
			return value{}, err
		}
		if bound.number <= 0 {
			return value{}, runtimeError(e.Line, e.Column,
				"Error: #259 RND(0) not allowed.")
		}
		return value{number: shortInt(rand.Intn(bound.number))}, nil

	case *UsrExpr:
		return in.execUsr(e)

	case *GotoStmt:
		target, err := in.evaluate(e.Target)
		if err != nil {
			return value{}, err
		}
		if !in.lines.has(target.number) {
			return value{}, runtimeError(e.Line, e.Column, fmt.Sprintf(
				"Error #046: GOTO subroutine does not exist '%d'.", target.number))
		}
		in.branchIP = target.number
		return value{}, nil

	case *GosubStmt:
		target, err := in.evaluate(e.Target)
		if err != nil {
			return value{}, err
		}
		if !in.lines.has(target.number) {
			return value{}, runtimeError(e.Line, e.Column, fmt.Sprintf(
				"Error #046: GOSUB subroutine does not exist '%d'.", target.number))
		}
		ipReturn := in.getNextLine(e.Line)
		if ipReturn == 0 {
			return value{}, runtimeError(e.Line, e.Column,
				"Error #345: GOSUB return address is invalid.")
		}
		in.callstack = append(in.callstack, ipReturn)
		in.branchIP = target.number
		return value{}, nil

	case *ReturnStmt:
		if len(in.callstack) == 0 {
			return value{}, runtimeError(e.Line, e.Column,
				"Error #133: RETURN called with an empty call stack.")
		}
		in.branchIP = in.callstack[len(in.callstack)-1]
		in.callstack = in.callstack[:len(in.callstack)-1]
		return value{}, nil

	case *EndStmt:
		// END while running halts, and typed at a breakpoint it is
		// the way out of the debugger. Resetting also drops unused
		// RUN parameters.
		if in.state == runningState || in.state == breakState {
			in.InitializeRuntimeState()
		}
		return value{}, nil

	case *ListStmt:
		return value{}, in.execList(e)

	case *IfStmt:
		return value{}, in.execIf(e)

	case *ClearStmt:
		in.InitializeRuntimeState()
		in.ClearProgram()
		return value{}, nil

	case *RunStmt:
		return value{}, in.execRun(e)

	case *InputStmt:
		return value{}, in.execInput(e)
	}

	return value{}, nil
}

func (in *Interpreter) execBinary(e *Binary) (value, error) {
	left, err := in.evaluate(e.Lhs)
	if err != nil {
		return value{}, err
	}
	right, err := in.evaluate(e.Rhs)
	if err != nil {
		return value{}, err
	}

	result := 0
	switch e.Operator.Kind {
	case PLUS:
		result = left.number + right.number
	case MINUS:
		result = left.number - right.number
	case STAR:
		result = left.number * right.number
	case SLASH:
		if right.number == 0 {
			return value{}, runtimeError(e.Line, e.Column,
				"Error #224 Division by zero.")
		}
		result = floorDiv(left.number, right.number)
	}

	return value{number: shortInt(result)}, nil
}

func (in *Interpreter) execUsr(e *UsrExpr) (value, error) {
	// Only the read (276) and write (280) routines exist.
	routine, err := in.evaluate(e.Address)
	if err != nil {
		return value{}, err
	}
	if routine.number != readRoutine && routine.number != writeRoutine {
		return value{}, runtimeError(e.Line, e.Column, fmt.Sprintf(
			"Error #360: USR only supports read (276) or write (280) "+
				"subroutines, given %d", routine.number))
	}

	if e.XReg == nil {
		return value{}, runtimeError(e.Line, e.Column,
			"Error #361: USR read/write routines require an address in XReg.")
	}

	xAddress, err := in.evaluate(e.XReg)
	if err != nil {
		return value{}, err
	}

	// A negative address is an offset from the end of the address
	// range. The life program does this.
	memAddress := xAddress.number
	if memAddress < 0 {
		memAddress = memorySize + memAddress
	}

	if routine.number == writeRoutine && e.AReg == nil {
		return value{}, runtimeError(e.Line, e.Column,
			"Error #362: USR write routine requires a value in AReg.")
	}

	if routine.number == writeRoutine {
		toWrite, err := in.evaluate(e.AReg)
		if err != nil {
			return value{}, err
		}
		theByte := toWrite.number
		if theByte < minByte || theByte > maxByte {
			return value{}, runtimeError(e.Line, e.Column, fmt.Sprintf(
				"Error #362: USR write routine on supports values in "+
					"AReg between 0 and 256, given '%d'.", theByte))
		}

		in.log.Debug("USR write", "value", theByte, "address", memAddress)
		return value{number: shortInt(in.mem.WriteMemory(memAddress, theByte))}, nil
	}

	in.log.Debug("USR read", "address", memAddress)
	return value{number: shortInt(in.mem.ReadMemory(memAddress))}, nil
}

func (in *Interpreter) execPrint(e *PrintStmt) error {
	// A bare PRINT just emits a CRLF.
	if len(e.Args) == 0 {
		in.print("\n")
		return nil
	}

	builder := ""
	for _, item := range e.Args {
		if sep, ok := item.(*PrintSeparator); ok {
			// A comma pads out to the next eight column zone. A
			// semicolon runs the items together.
			if sep.Separator == "," {
				builder += strings.Repeat(" ",
					printZoneWidth-(len(builder)%printZoneWidth))
			}
			continue
		}
		result, err := in.evaluate(item)
		if err != nil {
			return err
		}
		builder += result.display()
	}

	// A trailing separator suppresses the CRLF.
	if _, ok := e.Args[len(e.Args)-1].(*PrintSeparator); !ok {
		builder += "\n"
	}
	in.print(builder)
	return nil
}

func (in *Interpreter) execList(e *ListStmt) error {
	lowLine := 1
	highLine := maxLineNumber

	if e.Start != nil {
		param, err := in.evaluate(e.Start)
		if err != nil {
			return err
		}
		lowLine = param.number
	}
	if e.End != nil {
		param, err := in.evaluate(e.End)
		if err != nil {
			return err
		}
		highLine = param.number
	}

	if lowLine >= highLine {
		return runtimeError(e.Line, e.Column, fmt.Sprintf(
			"Error #337: LIST parameters must be in logical order, not "+
				"'%d','%d'.", lowLine, highLine))
	}

	if lowLine < 1 || lowLine > maxLineNumber ||
		highLine < 1 || highLine > maxLineNumber {
		return runtimeError(e.Line, e.Column, fmt.Sprintf(
			"Error #338: LIST parameters must be in the range 1 to 32767 "+
				"not '%d, %d'.", lowLine, highLine))
	}

	// A lone first parameter lists just that line.
	if lowLine != 1 && highLine == maxLineNumber && in.lines.has(lowLine) {
		in.print(in.lines.lookup(lowLine).source + "\n")
		return nil
	}

	in.lines.each(func(line *programLine) {
		if lowLine <= line.number && line.number <= highLine {
			in.print(line.source + "\n")
		}
	})
	return nil
}

func (in *Interpreter) execIf(e *IfStmt) error {
	lhs, err := in.evaluate(e.Lhs)
	if err != nil {
		return err
	}
	rhs, err := in.evaluate(e.Rhs)
	if err != nil {
		return err
	}

	result := false
	switch e.Operator.Kind {
	case EQUAL:
		result = lhs.number == rhs.number
	case NOT_EQUAL:
		result = lhs.number != rhs.number
	case LESS:
		result = lhs.number < rhs.number
	case LESS_EQUAL:
		result = lhs.number <= rhs.number
	case GREATER:
		result = lhs.number > rhs.number
	case GREATER_EQUAL:
		result = lhs.number >= rhs.number
	}

	if result {
		_, err = in.evaluate(e.Branch)
		return err
	}
	return nil
}

func (in *Interpreter) execRun(e *RunStmt) error {
	if in.state != runningState {
		// Direct execution.
		if in.lines.len() == 0 {
			in.print("Error #013: No program in memory to run.\n")
			return nil
		}
		// Stash the RUN parameters reversed so INPUT can pop them
		// off like a stack.
		in.runParams = make([]Node, 0, len(e.Args))
		for i := len(e.Args) - 1; i >= 0; i-- {
			in.runParams = append(in.runParams, e.Args[i])
		}
		return in.runProgram(0)
	}

	// A RUN on a program line, like "110 RUN", restarts the program.
	in.InitializeRuntimeState()
	return in.runProgram(0)
}

//
// INPUT handling
//

func buildInputPrompt(indexStart int, varList []*Variable) string {
	prompt := "["
	for i := indexStart; i < len(varList); i++ {
		prompt += varList[i].Name
		if i+1 < len(varList) {
			prompt += ","
		}
	}
	prompt += "]" + inputPromptSuffix
	return strings.ToUpper(prompt)
}

//
// The input can be a number, a variable, or any expression, so it
// gets evaluated in the right context by faking up a LET and
// running it through the whole pipeline
//

func (in *Interpreter) assignInputExpression(varName, varValue string) bool {
	varName = strings.ToUpper(varName)

	err := func() error {
		fakeLet := fmt.Sprintf("LET %s=%s", varName, varValue)
		lexTokens, err := in.scanner.ScanTokens(fakeLet)
		if err != nil {
			return err
		}
		statements, err := in.parser.ParseTokens(lexTokens)
		if err != nil {
			return err
		}
		for _, statement := range statements {
			if _, err := in.evaluate(statement); err != nil {
				return err
			}
		}
		return nil
	}()

	if err != nil {
		in.print(fmt.Sprintf(
			"Error #351: Invalid value in INPUT: '%s'. Setting "+
				"'%s=0' as default.\n", varValue, varName))
		in.assignInputExpression(varName, "0")
		return false
	}
	return true
}

func (in *Interpreter) execInput(e *InputStmt) error {
	currIndex := 0
	listLen := len(e.Variables)

	for currIndex < listLen {
		if len(in.runParams) > 0 {
			// Feed from the direct execution RUN parameters first.
			for currIndex < listLen && len(in.runParams) > 0 {
				param := in.runParams[len(in.runParams)-1]
				in.runParams = in.runParams[:len(in.runParams)-1]

				pValue, err := in.evaluate(param)
				if err != nil {
					berr := asBasicError(err)
					in.print(fmt.Sprintf("%s: %s\n", berr.Kind, berr.Message))
					in.InitializeRuntimeState()
					return nil
				}
				in.assignInputExpression(e.Variables[currIndex].Name,
					pValue.display())
				currIndex++
			}
			continue
		}

		prompt := buildInputPrompt(currIndex, e.Variables)
		inputGood, rawText := in.ReadInput(prompt)
		if !inputGood {
			// CTRL+C or CTRL+D at the prompt.
			in.InitializeRuntimeState()
			in.print("Error #350: Aborting RUN from INPUT entry.\n")
			return nil
		}

		rawList := strings.Split(rawText, ",")
		rawIndex := 0
		for currIndex < listLen && rawIndex < len(rawList) {
			in.assignInputExpression(e.Variables[currIndex].Name,
				rawList[rawIndex])
			currIndex++
			rawIndex++
		}

		if rawIndex < len(rawList) {
			in.print("WARN #001: More input given than variables requested " +
				"by INPUT.\n")
		}
	}

	return nil
}
