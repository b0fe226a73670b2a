package tinybasic

import "fmt"

//
// Constants and shared type definitions for the Tiny BASIC
// interpreter and debugger
//

const VERSION = "1.0.0"

//
// The interactive prompts.  The debugger prompt has the current
// instruction pointer poked into it
//

const myPrompt = "tbp:>"
const debugPromptFmt = "DEBUG(%d):>"
const inputPromptSuffix = "? "

//
// Line numbers run 1..32767.  Zero marks a direct execution
// statement
//

const maxLineNumber = 32767

//
// PRINT lays values out in zones that are multiples of eight
// columns wide
//

const printZoneWidth = 8

//
// The USR machine language hooks.  276 reads a byte, 280 writes
// one, exactly the addresses Tiny BASIC used on the 8080
//

const readRoutine = 276
const writeRoutine = 280

const minByte = 0
const maxByte = 256

//
// The emulated address space is 64K, carved into lazily allocated
// blocks
//

const memorySize = 65536
const memoryBlockSize = 64

//
// Uninitialized variables hold 0xDEAD so mistakes are easy to spot
//

const defaultUninitializedValue = 57005

//
// Lexical token kinds
//

type TokenKind int

const (
	CLEAR TokenKind = iota
	END
	GOTO
	GOSUB
	IF
	INPUT
	LET
	LIST
	PRINT
	REM
	RETURN
	RUN
	THEN
	RND
	USR

	LEFT_PAREN
	RIGHT_PAREN
	PLUS
	MINUS
	STAR
	SLASH
	COMMA
	SEMICOLON
	COLON
	GREATER
	LESS
	EQUAL

	GREATER_EQUAL
	LESS_EQUAL
	NOT_EQUAL

	LINE_NUMBER
	COMMENT

	IDENTIFIER
	NUMBER
	STRING

	CRLF
	EOF
)

var tokenKindNames = map[TokenKind]string{
	CLEAR:         "CLEAR",
	END:           "END",
	GOTO:          "GOTO",
	GOSUB:         "GOSUB",
	IF:            "IF",
	INPUT:         "INPUT",
	LET:           "LET",
	LIST:          "LIST",
	PRINT:         "PRINT",
	REM:           "REM",
	RETURN:        "RETURN",
	RUN:           "RUN",
	THEN:          "THEN",
	RND:           "RND",
	USR:           "USR",
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	COMMA:         "COMMA",
	SEMICOLON:     "SEMICOLON",
	COLON:         "COLON",
	GREATER:       "GREATER",
	LESS:          "LESS",
	EQUAL:         "EQUAL",
	GREATER_EQUAL: "GREATER_EQUAL",
	LESS_EQUAL:    "LESS_EQUAL",
	NOT_EQUAL:     "NOT_EQUAL",
	LINE_NUMBER:   "LINE_NUMBER",
	COMMENT:       "COMMENT",
	IDENTIFIER:    "IDENTIFIER",
	NUMBER:        "NUMBER",
	STRING:        "STRING",
	CRLF:          "CRLF",
	EOF:           "EOF",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

//
// A lexical token.  Line is the Tiny BASIC line number, 0 for
// direct execution.  Column is the offset of the lexeme in the
// source line.  Number holds the value for NUMBER and LINE_NUMBER
// tokens, Text the value for STRING, COMMENT, and IDENTIFIER
// tokens
//

type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
	Number int
	Text   string
}

func (t Token) String() string {
	return fmt.Sprintf("[%s (%d,%d)]", t.Kind, t.Line, t.Column)
}

//
// Join the tokens into one string for trace logging
//

func tokensToString(tokens []Token) string {
	ret := ""
	for _, t := range tokens {
		ret += t.String()
	}
	return ret
}

//
// Interpreter states.  The interpreter boots in lineState, flips
// to fileState while a buffer loads, runningState while a program
// executes, breakState when stopped at a breakpoint, and
// errorFileState when a buffer load fails
//

type interpState int

const (
	lineState interpState = iota
	fileState
	runningState
	breakState
	errorFileState
)

var interpStateNames = map[interpState]string{
	lineState:      "line",
	fileState:      "file",
	runningState:   "running",
	breakState:     "break",
	errorFileState: "error-file",
}

func (s interpState) String() string {
	if name, ok := interpStateNames[s]; ok {
		return name
	}
	return "unknown"
}

//
// How BreakContinue should resume a stopped program
//

type BreakContinueKind int

const (
	// Run to the next breakpoint or the end of the program.
	ContinueRun BreakContinueKind = iota
	// Execute only the next line.
	ContinueStep
)
