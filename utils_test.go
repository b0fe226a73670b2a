package tinybasic

import "testing"

func TestShortInt(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{1, 1},
		{-1, -1},
		{32767, 32767},
		{32768, -32768},
		{-32768, -32768},
		{-32769, 32767},
		{65535, -1},
		{65536, 0},
		{0x111FFFF, -1},
		{-65536, 0},
	}

	for _, tc := range tests {
		if got := shortInt(tc.in); got != tc.want {
			t.Errorf("shortInt(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{5, 2, 2},
		{-5, 2, -3},
		{5, -2, -3},
		{-5, -2, 2},
		{6, 3, 2},
		{-6, 3, -2},
	}

	for _, tc := range tests {
		if got := floorDiv(tc.a, tc.b); got != tc.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFormatCPUTime(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}

	for _, tc := range tests {
		if got := formatCPUTime(tc.in); got != tc.want {
			t.Errorf("formatCPUTime(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
