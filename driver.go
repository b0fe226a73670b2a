package tinybasic

import (
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

//
// The driver owns the read, execute, print loop and the command
// language, everything that starts with '%'.  The file IO, debugger
// commands, and prompt handling live here rather than in the
// Interpreter
//

const cmdLangPrefix = "%"

// Options holds the command line settings for a session.
type Options struct {
	// Skip the logo at startup.
	NoLogo bool
	// A program file to load before the prompt comes up.
	File string
	// Commands to execute as though the user typed them, separated
	// by '^' characters.
	Commands string
}

type cmdResult int

const (
	cmdContinue cmdResult = iota
	cmdQuit
)

type Driver struct {
	interp *Interpreter

	// Changed with %opt run_on_load.
	runAfterLoad bool

	// Output and ReadInput can be replaced for testing or to hook
	// up a line editor. ReadInput returns false when the user
	// pressed CTRL+C or CTRL+D.
	Output    func(string)
	ReadInput func(prompt string) (bool, string)
}

func NewDriver() *Driver {
	d := &Driver{
		interp: NewInterpreter(),
		Output: func(s string) { fmt.Print(s) },
	}
	d.interp.Output = func(s string) { d.Output(s) }
	d.ReadInput = func(prompt string) (bool, string) {
		return d.interp.ReadInput(prompt)
	}
	return d
}

// Interpreter exposes the wrapped interpreter so callers can hook
// up input and output before Run.
func (d *Driver) Interpreter() *Interpreter {
	return d.interp
}

//
// Run is the entry point for an interactive session.  It shows the
// logo, loads any requested file, runs any requested commands, and
// then reads lines until the user quits
//

func (d *Driver) Run(options Options) int {
	if !options.NoLogo {
		d.logoDisplay()
	}

	if options.File != "" {
		filename := options.File
		if !strings.HasPrefix(filename, "\"") {
			filename = "\"" + filename + "\""
		}
		d.commandLoadFile(filename)
	}

	if options.Commands != "" {
		for _, cmd := range strings.Split(options.Commands, "^") {
			if !d.ExecuteLine(cmd) {
				return 0
			}
		}
	}

	for {
		ok, cmd := d.ReadInput(d.buildPrompt())
		if !ok {
			// CTRL+D at the prompt means quit.
			return 0
		}
		if !d.ExecuteLine(strings.TrimSpace(cmd)) {
			return 0
		}
	}
}

func (d *Driver) buildPrompt() string {
	if d.interp.AtBreakpoint() {
		return fmt.Sprintf(debugPromptFmt, d.interp.CurrentLineNumber())
	}
	return myPrompt
}

//
// ExecuteLine runs one line of input, Tiny BASIC or command
// language, and reports false when the user wants to quit
//

func (d *Driver) ExecuteLine(cmd string) bool {
	if cmd == "" {
		return true
	}

	if strings.HasPrefix(cmd, cmdLangPrefix) {
		return d.processCommandLanguage(cmd) != cmdQuit
	}

	if d.interp.AtBreakpoint() &&
		strings.EqualFold(firstChars(cmd, 3), "run") {
		// RUN at a breakpoint would restart the program out from
		// under the debugger.
		d.Output(
			"CLE #16: Use %c to continue from a breakpoint instead of RUN.\n")
		return true
	}

	d.interp.InterpretLine(cmd)
	return true
}

func firstChars(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func (d *Driver) loadProgramAndRun(program string) {
	d.interp.InitializeRuntimeState()
	d.interp.ClearProgram()
	if d.interp.InterpretBuffer(program) && d.runAfterLoad {
		d.interp.InterpretLine("RUN")
	}
}

//
// The whole command language is one regular expression.  The \b on
// the short forms keeps 'cont' from matching 'c'
//

var cmdRegex = regexp.MustCompile(`(?i)^%(?P<cmd>` +
	`help|\?|` +
	`quit|\bq\b|` +
	`loadfile|\blf\b|` +
	`opt|` +
	`break|\bbp\b|` +
	`backtrace|\bbt\b|` +
	`continue|\bc\b|` +
	`delete|\bd\b|` +
	`lint|` +
	`savefile|\bsf\b|` +
	`step|\bs\b|` +
	`vars|\bv\b|` +
	`exit|\be\b)` +
	`\s*` +
	`(?P<param>log|time|run_on_load|strict|".*"|[*]|[0-9]*)?` +
	`\s*` +
	`(?P<optval>true|\bt\b|false|\bf\b)?`)

func (d *Driver) processCommandLanguage(cmd string) cmdResult {
	m := cmdRegex.FindStringSubmatch(cmd)
	if m == nil {
		d.commandLanguageError(fmt.Sprintf(
			"CLE #01: Invalid or unknown command : '%s'", cmd))
		return cmdContinue
	}

	command := strings.ToLower(m[cmdRegex.SubexpIndex("cmd")])
	param := m[cmdRegex.SubexpIndex("param")]
	optval := m[cmdRegex.SubexpIndex("optval")]

	switch command {
	case "q", "quit":
		d.Output("\nThank you for using tbp! Your patronage is appreciated.\n")
		return cmdQuit
	case "?":
		d.Output(shortHelp)
	case "help":
		d.logoDisplay()
		d.Output(fullHelp)
	case "lint":
		d.commandLint(param)
	case "savefile", "sf":
		d.commandSaveFile(param)
	case "opt":
		d.commandOpt(param, optval)
	case "loadfile", "lf":
		d.commandLoadFile(param)
	case "vars", "v":
		d.Output(d.interp.VariablesString())
	case "break", "bp":
		d.commandSetBreakpoint(param)
	case "delete", "d":
		d.commandDeleteBreakpoint(param)
	case "continue", "c":
		d.commandStepper(ContinueRun)
	case "step", "s":
		d.commandStepper(ContinueStep)
	case "backtrace", "bt":
		d.commandStack()
	case "exit", "e":
		d.commandExitDebugger()
	}

	return cmdContinue
}

func (d *Driver) commandExitDebugger() {
	if !d.interp.AtBreakpoint() {
		d.Output("CLE #08: %exit command only works while debugging.\n")
		return
	}
	// END already knows how to drop out of the debugger.
	d.interp.InterpretLine("END")
}

func (d *Driver) commandStack() {
	if !d.interp.AtBreakpoint() {
		d.Output("CLE #08: %backtrace command only works while debugging.\n")
		return
	}
	d.Output(d.interp.StackString())
}

func (d *Driver) commandStepper(kind BreakContinueKind) {
	if !d.interp.AtBreakpoint() {
		cmd := "%continue"
		if kind == ContinueStep {
			cmd = "%step"
		}
		d.Output(fmt.Sprintf(
			"CLE #08: %s command only works while debugging.\n", cmd))
		return
	}
	d.interp.BreakContinue(kind)
}

func (d *Driver) commandDeleteBreakpoint(param string) {
	if param == "*" {
		d.interp.DeleteAllBreakpoints()
		return
	}
	lineNum, err := strconv.Atoi(param)
	if err != nil {
		d.Output(fmt.Sprintf("CLE #05: %%break and %%delete commands require "+
			"line numbers as parameters: '%s'.\n", param))
		return
	}
	if ok, errStr := d.interp.DeleteBreakpoint(lineNum); !ok {
		d.Output(errStr + "\n")
	}
}

func (d *Driver) commandSetBreakpoint(param string) {
	// No parameter lists the breakpoints.
	if param == "" {
		d.Output(d.interp.ListBreakpoints())
		return
	}
	lineNum, err := strconv.Atoi(param)
	if err != nil {
		d.Output(fmt.Sprintf("CLE #05: %%break and %%delete commands require "+
			"line numbers as parameters: '%s'.\n", param))
		return
	}
	if ok, errStr := d.interp.SetBreakpoint(lineNum); !ok {
		d.Output(errStr + "\n")
	}
}

func (d *Driver) commandLint(param string) {
	d.interp.LintProgram(strings.EqualFold(param, "strict"))
}

func (d *Driver) commandSaveFile(filename string) {
	if filename == "" {
		d.commandLanguageError("CLE #02: Missing required filename or " +
			"missing quote delimiters for %savefile/%loadfile.")
		return
	}

	program := d.interp.GetProgram()
	if program == "" {
		d.commandLanguageError("CLE #03: No program in memory to save.")
		return
	}

	filename = strings.Trim(filename, "\"")

	saveProgram(filename, program, d.limitInput, d.Output)
}

func (d *Driver) commandLoadFile(filename string) {
	if d.interp.AtBreakpoint() {
		d.commandLanguageError("CLE #15: %loadfile disabled while debugging.")
		return
	}
	if filename == "" {
		d.commandLanguageError("CLE #02: Missing required filename or " +
			"missing quote delimiters for %savefile/%loadfile.")
		return
	}

	filename = strings.Trim(filename, "\"")

	if program := loadProgram(filename, d.Output); program != "" {
		d.loadProgramAndRun(program)
	}
}

func (d *Driver) commandOpt(option, value string) {
	option = strings.ToLower(option)
	value = strings.ToLower(value)

	switch option {
	case "":
		d.commandLanguageError("CLE #04: Required option is missing.")

	case "log":
		switch value {
		case "t", "true":
			d.interp.SetDebugLogging(true)
		case "f", "false":
			d.interp.SetDebugLogging(false)
		default:
			d.Output(fmt.Sprintf("Option: logging is %t.\n",
				d.interp.logLevel.Level() == slog.LevelDebug))
		}

	case "time":
		switch value {
		case "t", "true":
			d.interp.TimeLines = true
			d.interp.ShowStats = true
		case "f", "false":
			d.interp.TimeLines = false
			d.interp.ShowStats = false
		default:
			d.Output(fmt.Sprintf("Option: time is %t.\n", d.interp.TimeLines))
		}

	case "run_on_load":
		switch value {
		case "t", "true":
			d.runAfterLoad = true
		case "f", "false":
			d.runAfterLoad = false
		default:
			d.Output(fmt.Sprintf("Option: run_on_load is %t.\n",
				d.runAfterLoad))
		}
	}
}

func (d *Driver) commandLanguageError(err string) {
	d.Output(err + " (%? for help.)\n")
}

//
// Ask a question that only accepts answers from the valid list.
// Case insensitive, and an empty answer returns the first entry.
// Returns false when the user pressed CTRL+C or CTRL+D
//

func (d *Driver) limitInput(prompt string) (bool, string) {
	valid := []string{"y", "n"}

	for {
		ok, answer := d.ReadInput(prompt)
		if !ok {
			return false, ""
		}
		if answer == "" {
			return true, valid[0]
		}
		for _, v := range valid {
			if strings.EqualFold(answer, v) {
				return true, answer
			}
		}
		d.Output("Invalid input.\n")
	}
}

func (d *Driver) logoDisplay() {
	d.Output(logo)
	tag := taglines[rand.Intn(len(taglines))]
	d.Output(fmt.Sprintf("   %s\n\n", tag))
}
