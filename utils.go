package tinybasic

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

//
// Force a result into the signed 16-bit range the way the original
// hardware would have, keeping the low 16 bits and sign extending
//

func shortInt(x int) int {
	x &= 0xFFFF
	if x >= 0x8000 {
		x -= 0x10000
	}
	return x
}

//
// Integer division that rounds toward negative infinity, so
// -5/2 is -3 not -2
//

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

//
// Wall clock and CPU time for a program run
//

type runClock struct {
	elapsed time.Time
	utime   int64
	stime   int64
}

func (c *runClock) start() {
	c.elapsed = time.Now()
	c.utime, c.stime = getCPUInfo(1)
}

func (c *runClock) usage() string {
	elapsed := time.Since(c.elapsed)
	utime, stime := getCPUInfo(1)

	return fmt.Sprintf("CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-c.utime), formatCPUTime(stime-c.stime))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// The user and system time for this process, read from
// /proc/self/stat and scaled by the clock tick rate
//

func getCPUInfo(divisor int64) (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0
	}
	clktck /= divisor

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return utime / clktck, stime / clktck
}

//
// File saving and loading for %savefile and %loadfile
//

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

//
// Save the program, asking before clobbering an existing file.
// The confirm callback asks the question and returns false on
// CTRL+C or CTRL+D
//

func saveProgram(filename, program string,
	confirm func(prompt string) (bool, string), out func(string)) bool {

	theFile := expandHome(filename)

	if _, err := os.Stat(theFile); err == nil {
		ok, answer := confirm("Do you want to overwrite the file? (Y/n)>")
		if !ok || strings.EqualFold(answer, "n") {
			return false
		}
	}

	if err := os.WriteFile(theFile, []byte(program), 0o644); err != nil {
		out(fmt.Sprintf("CLE #12: Filename is invalid '%s'.\n", filename))
		return false
	}

	return true
}

func loadProgram(filename string, out func(string)) string {
	theFile := expandHome(filename)

	contents, err := os.ReadFile(theFile)
	if err != nil {
		if os.IsNotExist(err) {
			out(fmt.Sprintf("CLE #13: File does not exist '%s'.\n", filename))
		} else {
			out(fmt.Sprintf("CLE #12: Filename is invalid '%s'.\n", filename))
		}
		return ""
	}

	return string(contents)
}
