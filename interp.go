package tinybasic

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goforj/godump"
)

//
// The tree walking interpreter and debugger.  A host holds one of
// these and feeds it lines, both direct execution statements and
// numbered program lines.  Output and input are injected so tests
// and embedders can capture everything; nothing in here touches
// the terminal directly
//

type Interpreter struct {
	log      *slog.Logger
	logLevel *slog.LevelVar

	scanner *Scanner
	parser  *Parser
	symbols *SymbolTable
	printer *AstPrinter
	lines   *programStore

	breakpoints        []int
	breakpointsEnabled bool

	// TimeLines reports per line execution times. ShowStats prints
	// CPU usage after a completed run. TraceDump dumps parsed nodes.
	// None of these are touched by InitializeRuntimeState.
	TimeLines bool
	ShowStats bool
	TraceDump bool

	// Everything below here is reset by InitializeRuntimeState.
	fileLine  int
	state     interpState
	ip        int
	branchIP  int
	callstack []int
	runParams []Node
	mem       *Memory
	oneShots  []int

	clock runClock

	Output    func(string)
	ReadInput func(prompt string) (ok bool, text string)
}

func NewInterpreter() *Interpreter {
	in := &Interpreter{
		logLevel:           new(slog.LevelVar),
		symbols:            NewSymbolTable(),
		printer:            NewAstPrinter(),
		lines:              newProgramStore(),
		breakpointsEnabled: true,
		fileLine:           1,
		state:              lineState,
		mem:                NewMemory(),
	}
	in.logLevel.Set(slog.LevelInfo)
	in.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: in.logLevel,
	}))
	in.scanner = NewScanner(in.log)
	in.parser = NewParser(in.log, func(s string) { in.print(s) })

	// Tiny BASIC convention seeds S with the base address for the
	// USR read and write routines, emulating the Motorola 6800
	// layout. Only set here, so a program that changes S owns the
	// consequences.
	in.symbols.Set("S", 256)

	in.Output = func(s string) { fmt.Print(s) }
	stdin := bufio.NewReader(os.Stdin)
	in.ReadInput = func(prompt string) (bool, string) {
		fmt.Print(prompt)
		text, err := stdin.ReadString('\n')
		if err != nil {
			return false, ""
		}
		return true, strings.TrimRight(text, "\r\n")
	}

	return in
}

func (in *Interpreter) print(s string) {
	in.Output(s)
}

// SetDebugLogging flips diagnostic logging for the scanner,
// parser, and evaluator.
func (in *Interpreter) SetDebugLogging(on bool) {
	if on {
		in.logLevel.Set(slog.LevelDebug)
	} else {
		in.logLevel.Set(slog.LevelInfo)
	}
}

//
// Interpret methods
//

// InterpretLine scans, parses, and executes one line. It returns
// false when the line failed, with the error already reported
// through Output.
func (in *Interpreter) InterpretLine(source string) bool {
	err := in.interpretLine(source)
	if err == nil {
		return true
	}

	berr := asBasicError(err)
	// Report before resetting so errors in a loading file still
	// carry the file line annotation.
	in.reportError(source, berr)
	// When stopped at a breakpoint the user probably just mistyped
	// a debugger command, so leave the stopped program alone.
	if in.state != breakState {
		in.InitializeRuntimeState()
	}

	return false
}

func (in *Interpreter) interpretLine(source string) error {
	lexTokens, err := in.scanner.ScanTokens(source)
	if err != nil {
		return err
	}
	statements, err := in.parser.ParseTokens(lexTokens)
	if err != nil {
		return err
	}

	// A line of nothing but whitespace scans to a lone CRLF.
	if len(statements) == 0 {
		return nil
	}

	in.log.Debug("parsed", "ast", in.printer.PrintNodes(statements),
		"state", in.state)
	if in.TraceDump {
		godump.Dump(statements)
	}

	// In the error file state keep parsing to report more errors
	// but never execute anything.
	if in.state == errorFileState {
		return nil
	}

	if lineNum, ok := statements[0].(*LineNumber); ok {
		if len(statements) == 1 {
			// A bare line number deletes the stored line.
			in.deleteProgramLine(lineNum.Value)
		} else {
			trimmed := strings.TrimRight(source, " \t\r\n\v\f")
			in.lines.insert(lineNum.Value, trimmed, statements[1])
		}
		return nil
	}

	// Direct execution.
	for _, statement := range statements {
		if _, err := in.evaluate(statement); err != nil {
			return err
		}
	}
	return nil
}

// InterpretBuffer runs a whole buffer of CRLF separated lines,
// such as a loaded file. On any error the rest of the buffer is
// still parsed for further diagnostics, then the partial program
// is thrown away.
func (in *Interpreter) InterpretBuffer(source string) bool {
	finalReturn := true

	in.state = fileState
	in.fileLine = 1

	for _, currentLine := range strings.SplitAfter(source, "\n") {
		if currentLine == "" {
			break
		}
		if currentLine != "\n" && !in.InterpretLine(currentLine) {
			in.state = errorFileState
			finalReturn = false
		}
		in.fileLine++
	}

	if in.state == errorFileState {
		// No half programs floating around.
		in.ClearProgram()
		in.InitializeRuntimeState()
	}

	in.state = lineState
	return finalReturn
}

//
// Program and line retrieval
//

// GetProgram returns the source of the stored program, one line
// per row in line number order.
func (in *Interpreter) GetProgram() string {
	if in.lines.len() == 0 {
		return ""
	}

	program := ""
	in.lines.each(func(line *programLine) {
		program += line.source + "\n"
	})
	return program
}

// CurrentLineNumber is the instruction pointer, 0 when no program
// is running.
func (in *Interpreter) CurrentLineNumber() int {
	return in.ip
}

//
// State management
//

func (in *Interpreter) InitializeRuntimeState() {
	in.state = lineState
	in.ip = 0
	in.branchIP = 0
	in.callstack = nil
	in.runParams = nil
	in.mem = NewMemory()
	in.oneShots = nil
}

func (in *Interpreter) ClearProgram() {
	in.lines.clear()
	in.breakpoints = nil
	in.oneShots = nil
}

//
// Debugger methods
//

func (in *Interpreter) VariablesString() string {
	return in.symbols.ValuesString()
}

func (in *Interpreter) SetBreakpoint(lineNumber int) (bool, string) {
	if !in.lines.has(lineNumber) {
		return false, fmt.Sprintf(
			"CLE #06: Line does not exist in the program: '%d'.", lineNumber)
	}

	if in.hasBreakpoint(lineNumber) {
		return false, fmt.Sprintf(
			"CLE #14: Breakpoint already set on '%d'.", lineNumber)
	}

	index := sort.SearchInts(in.breakpoints, lineNumber)
	in.breakpoints = append(in.breakpoints, 0)
	copy(in.breakpoints[index+1:], in.breakpoints[index:])
	in.breakpoints[index] = lineNumber

	return true, ""
}

func (in *Interpreter) ListBreakpoints() string {
	if len(in.breakpoints) == 0 {
		return "No breakpoints set.\n"
	}

	ret := "Breakpoints set on:\n"
	for _, num := range in.breakpoints {
		ret += in.lines.lookup(num).source + "\n"
	}
	return ret
}

func (in *Interpreter) DeleteAllBreakpoints() {
	in.breakpoints = nil
}

func (in *Interpreter) DeleteBreakpoint(lineNumber int) (bool, string) {
	if !in.hasBreakpoint(lineNumber) {
		return false, fmt.Sprintf(
			"CLE #06: Line does not exist in the program: '%d'.", lineNumber)
	}
	in.removeBreakpoint(lineNumber)
	return true, ""
}

func (in *Interpreter) AtBreakpoint() bool {
	return in.state == breakState
}

// BreakContinue resumes a program stopped at a breakpoint, either
// running free or stepping a single line.
func (in *Interpreter) BreakContinue(kind BreakContinueKind) {
	// Debugger evaluation runs out of band, so an invalid branch
	// target must not tear down the whole session. Trap and report,
	// and unlike normal error handling leave the runtime state
	// alone so the user can keep inspecting the program.
	err := func() error {
		if kind == ContinueStep {
			if err := in.setOneShots(); err != nil {
				return err
			}
		}
		// The line at the instruction pointer still needs to run.
		return in.runProgram(in.ip)
	}()
	if err != nil {
		in.reportError("Debugger evaluation", asBasicError(err))
	}
}

func (in *Interpreter) StackString() string {
	result := "-- Call Stack --\n"
	for i := len(in.callstack) - 1; i >= 0; i-- {
		result += in.lines.lookup(in.callstack[i]).source + "\n"
	}
	return result
}

//
// Linting
//

func (in *Interpreter) LintProgram(strict bool) {
	if in.lines.len() == 0 {
		return
	}
	linter := NewLinter(in.Output)
	linter.LintProgram(in.lines, strict)
}

//
// Internal helpers
//

func asBasicError(err error) *BasicError {
	var berr *BasicError
	if errors.As(err, &berr) {
		return berr
	}
	return runtimeError(0, 0, err.Error())
}

func (in *Interpreter) hasBreakpoint(line int) bool {
	index := sort.SearchInts(in.breakpoints, line)
	return index < len(in.breakpoints) && in.breakpoints[index] == line
}

func (in *Interpreter) removeBreakpoint(line int) {
	index := sort.SearchInts(in.breakpoints, line)
	if index < len(in.breakpoints) && in.breakpoints[index] == line {
		in.breakpoints = append(in.breakpoints[:index], in.breakpoints[index+1:]...)
	}
}

func (in *Interpreter) hasOneShot(line int) bool {
	for _, shot := range in.oneShots {
		if shot == line {
			return true
		}
	}
	return false
}

func (in *Interpreter) deleteProgramLine(lineNum int) {
	// Deleting lines while stopped at a breakpoint would invalidate
	// the instruction pointer and the one shots.
	if in.state == breakState {
		in.print("CLE #09: Deleting program lines while debugging disabled.\n")
		return
	}

	if in.lines.has(lineNum) {
		in.lines.remove(lineNum)
	} else if in.state != fileState {
		// Only report missing lines in interactive mode.
		in.print(fmt.Sprintf(
			"Error #347: Line number is not in the program: '%d'\n", lineNum))
	}

	// A breakpoint on the line goes with it.
	in.removeBreakpoint(lineNum)
}

func (in *Interpreter) reportError(source string, err *BasicError) {
	// If the error came out of a stored program line, show that
	// line rather than whatever the user just typed.
	if err.Line != 0 {
		if line := in.lines.lookup(err.Line); line != nil {
			source = line.source
		}
	}
	msg := fmt.Sprintf("%s: %s", err.Kind, err.Message)
	// An interactive RUN reports without the file annotation, a
	// loading file (or a breakpoint hit inside one) reports with it.
	switch in.state {
	case fileState, errorFileState, breakState:
		msg += fmt.Sprintf(" (file line %d)", in.fileLine)
	}
	in.print(buildErrorString(source, msg, err.Column))
}

func (in *Interpreter) runLine(line int) error {
	stored := in.lines.lookup(line)
	in.log.Debug("executing", "source", stored.source)

	start := time.Now()
	if _, err := in.evaluate(stored.stmt); err != nil {
		return err
	}
	if in.TimeLines {
		ms := math.Round(float64(time.Since(start).Nanoseconds())/1e6*1e5) / 1e5
		in.print(fmt.Sprintf("[%d] = %v ms\n", line, ms))
	}
	return nil
}

// The line following the given one, or 0 at the end of the
// program.
func (in *Interpreter) getNextLine(line int) int {
	if next := in.lines.next(line); next != nil {
		return next.number
	}
	return 0
}

func (in *Interpreter) runProgram(startLine int) error {
	// A non-zero start means we are continuing or stepping after a
	// breakpoint. The breakpoint stops before its line executes, so
	// leaving breakpoints enabled here would loop break/execute
	// forever. They come back on once that line has run.
	in.breakpointsEnabled = true

	if startLine == 0 {
		in.ip = in.lines.first().number
	} else {
		in.ip = startLine
		in.breakpointsEnabled = false
	}

	in.branchIP = 0
	in.state = runningState

	if in.ShowStats {
		in.clock.start()
	}

	for in.state == runningState {
		if in.hitBreakpoint() {
			continue
		}
		in.breakpointsEnabled = true
		if err := in.runLine(in.ip); err != nil {
			return err
		}
		// Running a line can change the state, END for one.
		if in.state == runningState {
			if in.branchIP != 0 {
				in.ip = in.branchIP
				in.branchIP = 0
			} else {
				in.ip = in.getNextLine(in.ip)
			}
		}
		// An instruction pointer of zero means the program ended.
		if in.ip == 0 {
			break
		}
	}

	if in.state == runningState {
		in.InitializeRuntimeState()
		in.print("Error #335: No END in the program.\n")
	}

	if in.ShowStats && in.state != breakState {
		in.print(in.clock.usage())
	}

	return nil
}

func (in *Interpreter) hitBreakpoint() bool {
	if !in.breakpointsEnabled {
		return false
	}

	if in.hasBreakpoint(in.ip) {
		in.print(fmt.Sprintf("Breakpoint: %d\n", in.ip))
		in.state = breakState
	} else if in.hasOneShot(in.ip) {
		in.oneShots = nil
		in.state = breakState
	}

	if in.state == breakState {
		in.print(fmt.Sprintf("[%s]\n", in.lines.lookup(in.ip).source))
		return true
	}

	return false
}

//
// Stepping plants one-shot breakpoints on every line control can
// reach from the current one.  For
//
//   100 IF H=1 GOSUB 200
//   110 PR "Blah!"
//
// stepping at 100 plants one shots on 200 for the GOSUB and on
// 110 as the fall through.  RETURN steps to the top of the call
// stack, and nested IFs recurse down to the branch target
//

func (in *Interpreter) setOneShots() error {
	doBranch := func(target Node) error {
		address, err := in.evaluate(target)
		if err != nil {
			return err
		}
		if !in.lines.has(address.number) {
			in.print(fmt.Sprintf(
				"CLE #10: Branch target does not exist '%d'.\n", address.number))
			return nil
		}
		in.oneShots = append(in.oneShots, address.number)
		return nil
	}

	var doIf func(ifStmt *IfStmt) error
	doIf = func(ifStmt *IfStmt) error {
		switch branch := ifStmt.Branch.(type) {
		case *GotoStmt:
			return doBranch(branch.Target)
		case *GosubStmt:
			return doBranch(branch.Target)
		case *IfStmt:
			return doIf(branch)
		}
		return nil
	}

	switch stmt := in.lines.lookup(in.ip).stmt.(type) {
	case *ReturnStmt:
		// The only place a RETURN can land is the top of the call
		// stack.
		if len(in.callstack) == 0 {
			in.print("CLE #11: RETURN call stack is empty.")
			return nil
		}
		in.oneShots = append(in.oneShots, in.callstack[len(in.callstack)-1])
		return nil
	case *GotoStmt:
		if err := doBranch(stmt.Target); err != nil {
			return err
		}
	case *GosubStmt:
		if err := doBranch(stmt.Target); err != nil {
			return err
		}
	case *IfStmt:
		if err := doIf(stmt); err != nil {
			return err
		}
	}

	if nextLine := in.getNextLine(in.ip); nextLine != 0 {
		in.oneShots = append(in.oneShots, nextLine)
	}

	in.log.Debug("one shot breakpoints", "lines", fmt.Sprint(in.oneShots))
	return nil
}
