package tinybasic

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

//
// The lexical scanner.  It works on one line of Tiny BASIC at a
// time and always appends a CRLF sentinel token so the parser
// never has to worry about running off the end.
//
// Tiny BASIC is whitespace blind in the worst way: "1 0 0" is the
// number 100 and "G O T O" is the GOTO keyword.  The scanner eats
// whitespace inside numbers and keywords, which is why keyword
// matching below does its own character walking instead of simple
// prefix checks
//

type Scanner struct {
	source      string
	length      int
	current     int
	lexemeStart int
	lexeme      string
	lineNumber  int
	tokens      []Token
	log         *slog.Logger
}

func NewScanner(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{log: log}
}

//
// Scan a single line and return its tokens.  A leading digit run
// becomes a LINE_NUMBER token, and the returned slice always ends
// with a CRLF token
//

func (s *Scanner) ScanTokens(source string) ([]Token, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("source argument cannot be empty")
	}

	s.log.Debug("scanning", "source", source)

	if source[len(source)-1] != '\n' {
		source += "\n"
	}

	s.tokens = nil
	s.current = 0
	s.lexemeStart = 0
	s.lexeme = ""
	s.source = source
	s.length = len(source)
	s.lineNumber = 0

	s.findLineNumber()

	for !s.atEnd() {
		s.lexemeStart = s.current
		if err := s.scanToken(); err != nil {
			return nil, err
		}
		s.lexeme = ""
		s.advance()
	}

	s.lexemeStart = s.current
	s.lexeme = "\n"
	s.addToken(CRLF)

	return s.tokens, nil
}

func (s *Scanner) scanToken() error {
	c := s.currentUpper()
	s.lexeme = string(s.currentRaw())

	switch c {
	case '(':
		s.addToken(LEFT_PAREN)
	case ')':
		s.addToken(RIGHT_PAREN)
	case ',':
		s.addToken(COMMA)
	case '-':
		s.addToken(MINUS)
	case '+':
		s.addToken(PLUS)
	case ';':
		s.addToken(SEMICOLON)
	case ':':
		s.addToken(COLON)
	case '*':
		s.addToken(STAR)
	case '/':
		s.addToken(SLASH)
	case '=':
		s.addToken(EQUAL)
	case '<':
		if s.match('=') {
			s.addToken(LESS_EQUAL)
		} else if s.match('>') {
			s.addToken(NOT_EQUAL)
		} else {
			s.addToken(LESS)
		}
	case '>':
		if s.match('=') {
			s.addToken(GREATER_EQUAL)
		} else if s.match('<') {
			s.addToken(NOT_EQUAL)
		} else {
			s.addToken(GREATER)
		}
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.keywordOrIdentifier(c)
		default:
			return syntaxError(s.lineNumber, s.current, fmt.Sprintf(
				"Error #293: Syntax error - unexpected expression : '%c'", c))
		}
	}

	return nil
}

//
// Index movement and character classification
//

func (s *Scanner) atEnd() bool {
	return s.source[s.current] == '\n'
}

//
// Move to the next character, skipping whitespace, and fold it
// into the lexeme being built
//

func (s *Scanner) advance() byte {
	if s.atEnd() {
		return 0
	}

	s.current++
	if s.atEnd() {
		return 0
	}

	s.skipWhitespace()

	next := s.currentUpper()
	s.lexeme += string(s.currentRaw())

	return next
}

func (s *Scanner) advancePreservingWhitespace() byte {
	s.current++
	if s.atEnd() {
		return 0
	}

	next := s.currentUpper()
	s.lexeme += string(s.currentRaw())

	return next
}

func (s *Scanner) backUp() {
	if s.current > 0 {
		s.current--
	}
}

func (s *Scanner) skipWhitespace() {
	if s.atEnd() {
		return
	}
	c := s.currentUpper()
	for isSpace(c) {
		s.current++
		if s.atEnd() {
			return
		}
		c = s.currentUpper()
	}
}

//
// Check the character after the current one without skipping
// whitespace, so "< =" stays two tokens
//

func (s *Scanner) match(expected byte) bool {
	if s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) currentUpper() byte {
	return toUpper(s.currentRaw())
}

func (s *Scanner) currentRaw() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return toUpper(s.source[s.current+1])
}

//
// Strings, numbers, keywords, and comments
//

func (s *Scanner) scanString() error {
	// Where the opening quote sits, for the error message.
	stringStart := s.current

	s.advancePreservingWhitespace()

	// Is it an empty string?
	if s.source[s.lexemeStart] == '"' && s.source[s.current] == '"' {
		s.addTextToken(STRING, "")
		return nil
	}

	for s.peek() != '"' && !s.atEnd() {
		s.advancePreservingWhitespace()
	}

	if s.atEnd() {
		return syntaxError(s.lineNumber, s.current, fmt.Sprintf(
			"Error #331: Unterminated string (started at position %d)",
			stringStart))
	}

	// Eat the closing quote.
	s.advance()

	value := s.source[s.lexemeStart+1 : s.current]
	s.addTextToken(STRING, value)

	return nil
}

//
// Walk forward over whitespace and letters checking for a keyword
// without disturbing the real scan position until we know it
// matched.  Passing EOF as the kind turns this into a pure probe:
// report whether the keyword is there but never emit a token.
// That exists for one customer, the PRETURN check below
//

func (s *Scanner) checkKeyword(keyword string, kind TokenKind) bool {
	tempIndex := s.current
	keyLen := len(keyword)

	s.lexeme = ""

	charCount := 0
	for charCount < keyLen {
		curr := toUpper(s.source[tempIndex])
		if isSpace(curr) {
			tempIndex++
			if tempIndex >= s.length {
				return false
			}
		} else if isAlpha(curr) && keyword[charCount] == curr {
			s.lexeme += string(s.source[tempIndex])
			charCount++
			tempIndex++
			if tempIndex >= s.length {
				return false
			}
		} else {
			break
		}
	}

	if charCount != keyLen {
		s.lexeme = ""
		return false
	}

	if kind == EOF {
		s.lexeme = ""
		return true
	}

	s.current = tempIndex - 1
	s.addToken(kind)

	return true
}

//
// Collect a digit run, tolerating embedded whitespace.  "1 0 0"
// comes back as "100"
//

func (s *Scanner) extractNumber() string {
	s.skipWhitespace()

	raw := ""
	c := s.currentUpper()
	s.lexeme += string(c)

	for (isDigit(c) || c == ' ' || c == '\r' || c == '\t') && !s.atEnd() {
		if isDigit(c) {
			raw += string(c)
		}
		c = s.advance()
	}

	// The advance above pulled the next character into the lexeme,
	// so drop it again.
	if !s.atEnd() {
		s.lexeme = s.lexeme[:len(s.lexeme)-1]
	}

	return raw
}

func (s *Scanner) scanNumber() {
	s.lexeme = ""
	raw := s.extractNumber()
	n, err := strconv.Atoi(raw)
	if err != nil {
		// An absurd digit run. Anything far outside 16 bits will do.
		n = math.MaxInt
	}
	s.addNumberToken(NUMBER, n)
	// Collecting the digits reads one past the number, and the main
	// loop assumes the index sits on the processed lexeme.
	s.backUp()
}

func (s *Scanner) findLineNumber() {
	raw := s.extractNumber()
	if len(raw) > 0 {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = math.MaxInt
		}
		s.lineNumber = n
		s.addNumberToken(LINE_NUMBER, n)
	}
}

func (s *Scanner) keywordOrIdentifier(first byte) {
	wasKeyword := false

	switch first {
	case 'C':
		wasKeyword = s.checkKeyword("CLEAR", CLEAR)
	case 'E':
		wasKeyword = s.checkKeyword("END", END)
	case 'G':
		if wasKeyword = s.checkKeyword("GOTO", GOTO); !wasKeyword {
			wasKeyword = s.checkKeyword("GOSUB", GOSUB)
		}
	case 'I':
		if wasKeyword = s.checkKeyword("IF", IF); !wasKeyword {
			wasKeyword = s.checkKeyword("INPUT", INPUT)
		}
	case 'L':
		if wasKeyword = s.checkKeyword("LET", LET); !wasKeyword {
			wasKeyword = s.checkKeyword("LIST", LIST)
		}
	case 'P':
		if wasKeyword = s.checkKeyword("PRINT", PRINT); !wasKeyword {
			// "IF X >P RETURN" must not scan as "IF X > PR ETURN".
			// Probe for PRETURN and if it is there, the P is a plain
			// variable and RETURN gets scanned on its own.
			if s.checkKeyword("PRETURN", EOF) {
				wasKeyword = false
			} else {
				wasKeyword = s.checkKeyword("PR", PRINT)
			}
		}
	case 'R':
		wasKeyword = s.checkKeyword("RUN", RUN)
		if !wasKeyword {
			wasKeyword = s.checkKeyword("RETURN", RETURN)
		}
		if !wasKeyword {
			wasKeyword = s.checkKeyword("RND", RND)
		}
		if !wasKeyword {
			if wasKeyword = s.checkKeyword("REM", REM); wasKeyword {
				s.readComment()
			}
		}
	case 'T':
		wasKeyword = s.checkKeyword("THEN", THEN)
	case 'U':
		wasKeyword = s.checkKeyword("USR", USR)
	}

	if !wasKeyword {
		s.lexeme = string(s.currentRaw())
		s.addTextToken(IDENTIFIER, string(first))
	}
}

//
// Everything on the line after the REM keyword is the comment,
// leading whitespace included
//

func (s *Scanner) readComment() {
	s.advancePreservingWhitespace()
	start := s.current
	comment := s.source[start : s.length-1]
	s.addTextToken(COMMENT, comment)
	s.current += len(comment)
}

//
// Token construction
//

func (s *Scanner) addToken(kind TokenKind) {
	s.tokens = append(s.tokens, Token{
		Kind:   kind,
		Lexeme: s.lexeme,
		Line:   s.lineNumber,
		Column: s.lexemeStart,
	})
}

func (s *Scanner) addNumberToken(kind TokenKind, value int) {
	s.tokens = append(s.tokens, Token{
		Kind:   kind,
		Lexeme: s.lexeme,
		Line:   s.lineNumber,
		Column: s.lexemeStart,
		Number: value,
	})
}

func (s *Scanner) addTextToken(kind TokenKind, value string) {
	s.tokens = append(s.tokens, Token{
		Kind:   kind,
		Lexeme: s.lexeme,
		Line:   s.lineNumber,
		Column: s.lexemeStart,
		Text:   value,
	})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
