package tinybasic

import (
	"strings"
	"testing"
)

func printAst(t *testing.T, source string) string {
	t.Helper()
	out, err := NewAstPrinter().Print(source)
	if err != nil {
		t.Fatalf("Print(%q) failed: %v", source, err)
	}
	return out
}

func parseError(t *testing.T, source string) error {
	t.Helper()
	_, err := NewAstPrinter().Print(source)
	if err == nil {
		t.Fatalf("Print(%q) should have failed", source)
	}
	return err
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"10 LET A=1+2", "[Line# 10][LET [Var A] = [+ 1, 2]]"},
		{"A=5*3", "[LET [Var A] = [* 5, 3]]"},
		{"PRINT", "[PRINT ())]"},
		{"PRINT 1,2", "[PRINT (1, [,], 2)]"},
		{"PRINT \"A\";", "[PRINT (\"A\", [;])]"},
		{"10 REM Comment", "[Line# 10][REM Comment]"},
		{"GOTO 100", "[GOTO 100]"},
		{"GOSUB 2*50", "[GOSUB [* 2, 50]]"},
		{"RETURN", "[RETURN]"},
		{"END", "[END]"},
		{"CLEAR", "[CLEAR]"},
		{"LIST", "[LIST None, None]"},
		{"LIST 10,20", "[LIST 10, 20]"},
		{"IF A<2 THEN GOTO 100", "[IF ([Var A] [<] 2) [THEN [GOTO 100]]]"},
		{"IF A<2 GOTO 100", "[IF ([Var A] [<] 2) [THEN [GOTO 100]]]"},
		{"INPUT A,B", "[INPUT ([Var A], [Var B])]"},
		{"RUN", "[RUN]"},
		{"RUN 1,2", "[RUN (1, 2)]"},
		{"USR(276,100)", "[USR(276, 100)]"},
		{"USR(280,100,255)", "[USR(280, 100, 255)]"},
		{"-RND(10)", "[Unary - [RND(10)]]"},
		{"(1+2)*3", "[* [Group [+ 1, 2]], 3]"},
		{"LET A=-1", "[LET [Var A] = [Unary - 1]]"},
	}

	for _, tc := range tests {
		if got := printAst(t, tc.source); got != tc.want {
			t.Errorf("Print(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestParseLiteralWrapsToSixteenBits(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"PRINT 65535", "[PRINT (-1)]"},
		{"PRINT 65536", "[PRINT (0)]"},
		{"PRINT 32768", "[PRINT (-32768)]"},
	}

	for _, tc := range tests {
		if got := printAst(t, tc.source); got != tc.want {
			t.Errorf("Print(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"33000 PRINT", "Error #009"},
		{"LET", "Error #018"},
		{"LET 5=2", "Error #018"},
		{"LET A 2", "Error #020"},
		{"LET A=", "Error #023"},
		{"GOTO", "Error #037"},
		{"GOSUB", "Error #037"},
		{"IF A 100", "Error #330"},
		{"PRINT ,1", "Error #339"},
		{"INPUT", "Error #104"},
		{"INPUT 5", "Error #104"},
		{"INPUT A,5", "Error #104"},
		{"RND 10", "Error #293"},
		{"PRINT (1+2", "Error #296"},
		{"RUN 1,", "Error #296"},
	}

	for _, tc := range tests {
		err := parseError(t, tc.source)
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("Print(%q) error = %v, want %s", tc.source, err, tc.want)
		}
	}
}

func TestParseEndRequiresEndOfLine(t *testing.T) {
	err := parseError(t, "END 100")
	if !strings.Contains(err.Error(), "Expected the end of the line") {
		t.Errorf("wrong error: %v", err)
	}
}

func TestParseRunParamsInProgramWarns(t *testing.T) {
	var buf strings.Builder
	parser := NewParser(nil, func(s string) { buf.WriteString(s) })
	scanner := NewScanner(nil)

	tokens, err := scanner.ScanTokens("100 RUN 1,2")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	statements, err := parser.ParseTokens(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !strings.Contains(buf.String(), "WARN #002") {
		t.Errorf("missing warning, got %q", buf.String())
	}
	run, ok := statements[1].(*RunStmt)
	if !ok {
		t.Fatalf("statement is %T, want *RunStmt", statements[1])
	}
	if len(run.Args) != 0 {
		t.Errorf("RUN in a program kept %d args, want 0", len(run.Args))
	}
}
