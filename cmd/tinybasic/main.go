package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danswartzendruber/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tinybasic"
)

var (
	nologo   bool
	commands string
)

var rootCmd = &cobra.Command{
	Use:   "tinybasic [file]",
	Short: "A Tiny BASIC interpreter and debugger",
	Long: `tbp is a complete Tiny BASIC interpreter and debugger with
breakpoints, single stepping, a call stack viewer, and a linter.

Start it with no arguments for an interactive session, or give it a
file of Tiny BASIC code to load at startup.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		return runSession(tinybasic.Options{
			NoLogo:   nologo,
			File:     file,
			Commands: commands,
		})
	},
}

func init() {
	rootCmd.Flags().BoolVar(&nologo, "nologo", false,
		"don't show the awesome logo")
	rootCmd.Flags().StringVarP(&commands, "commands", "c", "",
		"commands to execute on startup, separated by '^'")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tinybasic: %v\n", err)
		os.Exit(1)
	}
}

//
// A session owns the terminal. Two liner instances, one with
// scrollback history for the prompt and one without for INPUT
// statements. They must be closed in LIFO order since Close
// restores the previous terminal state
//

type session struct {
	promptLiner *liner.State
	inputLiner  *liner.State
}

func runSession(options tinybasic.Options) error {
	driver := tinybasic.NewDriver()

	if term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd())) {
		s := &session{}
		s.promptLiner = setupLiner()
		s.inputLiner = setupLiner()
		defer s.cleanup()

		driver.ReadInput = func(prompt string) (bool, string) {
			return s.readLine(s.promptLiner, prompt, true)
		}
		driver.Interpreter().ReadInput = func(prompt string) (bool, string) {
			return s.readLine(s.inputLiner, prompt, false)
		}
	} else {
		// Piped input, no line editing.
		reader := bufio.NewReader(os.Stdin)
		readPlain := func(prompt string) (bool, string) {
			fmt.Print(prompt)
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return false, ""
			}
			return true, strings.TrimRight(line, "\r\n")
		}
		driver.ReadInput = readPlain
		driver.Interpreter().ReadInput = readPlain
	}

	driver.Run(options)
	return nil
}

func setupLiner() *liner.State {
	l := liner.NewLiner()
	l.SetMultiLineMode(true)
	return l
}

func (s *session) cleanup() {
	if s.inputLiner != nil {
		s.inputLiner.Close()
		s.inputLiner = nil
	}
	if s.promptLiner != nil {
		s.promptLiner.Close()
		s.promptLiner = nil
	}
}

//
// Read a line with editing. CTRL+C comes back as an empty line at
// the main prompt and as an abort inside INPUT. CTRL+D is an EOF
// that ends the session
//

func (s *session) readLine(l *liner.State, prompt string,
	history bool) (bool, string) {

	line, err := l.Prompt(prompt)
	if err != nil {
		if err == liner.ErrPromptAborted {
			if l == s.inputLiner {
				return false, ""
			}
			return true, ""
		}
		if err == io.EOF {
			return false, ""
		}
		return false, ""
	}

	if history && line != "" {
		l.AppendHistory(line)
	}
	return true, line
}
