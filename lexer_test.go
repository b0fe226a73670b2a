package tinybasic

import (
	"strings"
	"testing"
)

func scanLine(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := NewScanner(nil).ScanTokens(source)
	if err != nil {
		t.Fatalf("ScanTokens(%q) failed: %v", source, err)
	}
	return tokens
}

func checkKinds(t *testing.T, tokens []Token, want []TokenKind) {
	t.Helper()
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %s", len(tokens), len(want),
			tokensToString(tokens))
	}
	for i, kind := range want {
		if tokens[i].Kind != kind {
			t.Errorf("token %d is %s, want %s", i, tokens[i].Kind, kind)
		}
	}
}

func TestScanSimpleLine(t *testing.T) {
	tokens := scanLine(t, "10 PRINT \"Hello\"")
	checkKinds(t, tokens, []TokenKind{LINE_NUMBER, PRINT, STRING, CRLF})
	if tokens[0].Number != 10 {
		t.Errorf("line number is %d, want 10", tokens[0].Number)
	}
	if tokens[2].Text != "Hello" {
		t.Errorf("string text is %q, want %q", tokens[2].Text, "Hello")
	}
}

func TestScanWhitespaceBlindNumber(t *testing.T) {
	// Tiny BASIC ignores whitespace inside numbers.
	tokens := scanLine(t, "PRINT 1 0 0")
	checkKinds(t, tokens, []TokenKind{PRINT, NUMBER, CRLF})
	if tokens[1].Number != 100 {
		t.Errorf("number is %d, want 100", tokens[1].Number)
	}
}

func TestScanWhitespaceBlindKeyword(t *testing.T) {
	tokens := scanLine(t, "G O T O 100")
	checkKinds(t, tokens, []TokenKind{GOTO, NUMBER, CRLF})
}

func TestScanPrintAbbreviation(t *testing.T) {
	tokens := scanLine(t, "PR \"HI\"")
	checkKinds(t, tokens, []TokenKind{PRINT, STRING, CRLF})
}

func TestScanPReturnIsNotPrint(t *testing.T) {
	// "P RETURN" must not scan as the PR abbreviation followed by
	// garbage. P is a variable and RETURN is a keyword.
	tokens := scanLine(t, "IF X > P RETURN")
	checkKinds(t, tokens,
		[]TokenKind{IF, IDENTIFIER, GREATER, IDENTIFIER, RETURN, CRLF})
	if tokens[3].Text != "P" {
		t.Errorf("identifier is %q, want P", tokens[3].Text)
	}
}

func TestScanRelationalOperators(t *testing.T) {
	tests := []struct {
		source string
		want   []TokenKind
	}{
		{"IF A <> 1 END", []TokenKind{IF, IDENTIFIER, NOT_EQUAL, NUMBER, END, CRLF}},
		{"IF A >< 1 END", []TokenKind{IF, IDENTIFIER, NOT_EQUAL, NUMBER, END, CRLF}},
		{"IF A <= 1 END", []TokenKind{IF, IDENTIFIER, LESS_EQUAL, NUMBER, END, CRLF}},
		{"IF A >= 1 END", []TokenKind{IF, IDENTIFIER, GREATER_EQUAL, NUMBER, END, CRLF}},
		{"IF A = 1 END", []TokenKind{IF, IDENTIFIER, EQUAL, NUMBER, END, CRLF}},
	}

	for _, tc := range tests {
		checkKinds(t, scanLine(t, tc.source), tc.want)
	}
}

func TestScanRemCapturesRestOfLine(t *testing.T) {
	tokens := scanLine(t, "10 REM  Hello world")
	checkKinds(t, tokens, []TokenKind{LINE_NUMBER, REM, COMMENT, CRLF})
	if tokens[2].Text != "  Hello world" {
		t.Errorf("comment is %q, want %q", tokens[2].Text, "  Hello world")
	}
}

func TestScanEmptyString(t *testing.T) {
	tokens := scanLine(t, "PRINT \"\"")
	checkKinds(t, tokens, []TokenKind{PRINT, STRING, CRLF})
	if tokens[1].Text != "" {
		t.Errorf("string text is %q, want empty", tokens[1].Text)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := NewScanner(nil).ScanTokens("PRINT \"abc")
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
	if !strings.Contains(err.Error(), "Error #331") {
		t.Errorf("wrong error: %v", err)
	}
}

func TestScanIllegalCharacter(t *testing.T) {
	_, err := NewScanner(nil).ScanTokens("PRINT @")
	if err == nil {
		t.Fatal("expected an error for an illegal character")
	}
	if !strings.Contains(err.Error(), "Error #293") {
		t.Errorf("wrong error: %v", err)
	}
}

func TestScanBareLineNumber(t *testing.T) {
	tokens := scanLine(t, "100")
	checkKinds(t, tokens, []TokenKind{LINE_NUMBER, CRLF})
	if tokens[0].Number != 100 {
		t.Errorf("line number is %d, want 100", tokens[0].Number)
	}
}

func TestScanEmptySourceFails(t *testing.T) {
	if _, err := NewScanner(nil).ScanTokens(""); err == nil {
		t.Fatal("expected an error for empty source")
	}
}

func TestScanUsrAndRnd(t *testing.T) {
	tokens := scanLine(t, "LET A=USR(276,RND(10))")
	checkKinds(t, tokens, []TokenKind{LET, IDENTIFIER, EQUAL, USR, LEFT_PAREN,
		NUMBER, COMMA, RND, LEFT_PAREN, NUMBER, RIGHT_PAREN, RIGHT_PAREN, CRLF})
}
