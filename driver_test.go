package tinybasic

import (
	"strings"
	"testing"
)

func testDriver(t *testing.T) (*Driver, *strings.Builder) {
	t.Helper()
	d := NewDriver()
	var buf strings.Builder
	d.Output = func(s string) { buf.WriteString(s) }
	return d, &buf
}

func execLines(t *testing.T, d *Driver, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if !d.ExecuteLine(line) {
			t.Fatalf("ExecuteLine(%q) wanted to quit", line)
		}
	}
}

func TestDriverRunsBasic(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "PRINT 42")
	if buf.String() != "42\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverUnknownCommand(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "%bogus")
	if !strings.Contains(buf.String(), "CLE #01") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverQuit(t *testing.T) {
	d, buf := testDriver(t)
	if d.ExecuteLine("%q") {
		t.Error("the quit command did not quit")
	}
	if !strings.Contains(buf.String(), "Thank you for using tbp!") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverShortFormsNeedWordBoundary(t *testing.T) {
	// 'cont' must not match the short form of %c.
	d, buf := testDriver(t)
	execLines(t, d, "%cont")
	if !strings.Contains(buf.String(), "CLE #01") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverHelp(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "%?")
	if !strings.Contains(buf.String(), "Debugging Commands") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverVars(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "LET A=7")
	buf.Reset()
	execLines(t, d, "%vars")
	if !strings.Contains(buf.String(), "A=7") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverBreakpointCommands(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d,
		"10 PRINT 1",
		"20 PRINT 2",
		"30 END")

	execLines(t, d, "%bp 20")
	buf.Reset()
	execLines(t, d, "%bp")
	if !strings.Contains(buf.String(), "20 PRINT 2") {
		t.Errorf("list got %q", buf.String())
	}

	// '*' is valid for %delete but not for %break.
	buf.Reset()
	execLines(t, d, "%bp *")
	if !strings.Contains(buf.String(), "CLE #05") {
		t.Errorf("got %q", buf.String())
	}

	execLines(t, d, "%d 20")
	buf.Reset()
	execLines(t, d, "%bp")
	if !strings.Contains(buf.String(), "No breakpoints set.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverDeleteAllBreakpoints(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d,
		"10 PRINT 1",
		"20 END",
		"%bp 10",
		"%bp 20",
		"%d *")
	buf.Reset()
	execLines(t, d, "%bp")
	if !strings.Contains(buf.String(), "No breakpoints set.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverDebuggerCommandsNeedBreakpoint(t *testing.T) {
	tests := []string{"%c", "%s", "%bt", "%e"}

	for _, cmd := range tests {
		d, buf := testDriver(t)
		execLines(t, d, cmd)
		if !strings.Contains(buf.String(), "CLE #08") {
			t.Errorf("%s got %q", cmd, buf.String())
		}
	}
}

func TestDriverDebugSession(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d,
		"10 LET A=1",
		"20 PRINT A",
		"30 END",
		"%bp 20",
		"RUN")

	if !d.Interpreter().AtBreakpoint() {
		t.Fatal("not stopped at breakpoint")
	}

	// RUN is blocked while stopped.
	buf.Reset()
	execLines(t, d, "RUN")
	if !strings.Contains(buf.String(), "CLE #16") {
		t.Errorf("got %q", buf.String())
	}

	// %exit drops back to the normal prompt.
	execLines(t, d, "%e")
	if d.Interpreter().AtBreakpoint() {
		t.Error("the exit command did not leave the debugger")
	}
}

func TestDriverLoadFileBlockedWhileDebugging(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d,
		"10 PRINT 1",
		"20 END",
		"%bp 10",
		"RUN")

	buf.Reset()
	execLines(t, d, "%lf \"program.tbp\"")
	if !strings.Contains(buf.String(), "CLE #15") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverSaveFileRequiresProgram(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "%sf \"out.tbp\"")
	if !strings.Contains(buf.String(), "CLE #03") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	execLines(t, d, "%sf")
	if !strings.Contains(buf.String(), "CLE #02") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverLoadFileMissing(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "%lf \"no-such-file.tbp\"")
	if !strings.Contains(buf.String(), "CLE #13") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverSaveAndLoadRoundTrip(t *testing.T) {
	d, _ := testDriver(t)
	file := t.TempDir() + "/program.tbp"
	execLines(t, d,
		"10 PRINT 9",
		"20 END",
		"%sf \""+file+"\"",
		"CLEAR",
		"%lf \""+file+"\"")

	want := "10 PRINT 9\n20 END\n"
	if got := d.Interpreter().GetProgram(); got != want {
		t.Errorf("GetProgram() = %q, want %q", got, want)
	}
}

func TestDriverOptRunOnLoad(t *testing.T) {
	d, buf := testDriver(t)
	file := t.TempDir() + "/program.tbp"
	execLines(t, d,
		"10 PRINT 5",
		"20 END",
		"%sf \""+file+"\"",
		"%opt run_on_load t")

	buf.Reset()
	execLines(t, d, "%lf \""+file+"\"")
	if buf.String() != "5\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverOptShowsState(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "%opt time")
	if !strings.Contains(buf.String(), "Option: time is false.") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	execLines(t, d, "%opt time t", "%opt time")
	if !strings.Contains(buf.String(), "Option: time is true.") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	execLines(t, d, "%opt")
	if !strings.Contains(buf.String(), "CLE #04") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverLint(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "10 PRINT 1", "%lint")
	if !strings.Contains(buf.String(), "LINT #01") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDriverCommandsAreCaseInsensitive(t *testing.T) {
	d, buf := testDriver(t)
	execLines(t, d, "%VARS")
	if strings.Contains(buf.String(), "CLE #01") {
		t.Errorf("got %q", buf.String())
	}
}
