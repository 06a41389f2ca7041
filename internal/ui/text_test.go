package ui

import "testing"

func TestVisualCol(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want int
	}{
		{"hello", 0, 0},
		{"hello", 3, 3},
		{"\tx", 1, 4},
		{"ab\tx", 3, 4},
		{"héllo", 3, 2},
		{"日本語", 6, 4},
		{"éx", 3, 1},
		{"short", 99, 5},
	}

	for _, tt := range tests {
		if got := visualCol(tt.line, tt.col); got != tt.want {
			t.Errorf("visualCol(%q, %d) = %d, expected %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestByteCol(t *testing.T) {
	tests := []struct {
		line string
		x    int
		want int
	}{
		{"hello", 2, 2},
		{"hello", 10, 5},
		{"\tx", 2, 0},
		{"\tx", 4, 1},
		{"日本語", 3, 3},
		{"héllo", 2, 3},
	}

	for _, tt := range tests {
		if got := byteCol(tt.line, tt.x); got != tt.want {
			t.Errorf("byteCol(%q, %d) = %d, expected %d", tt.line, tt.x, got, tt.want)
		}
	}
}

func TestClusterSteps(t *testing.T) {
	line := "aé日"
	if got := nextCluster(line, 1); got != 3 {
		t.Errorf("nextCluster at 1 = %d, expected 3", got)
	}
	if got := prevCluster(line, 4); got != 3 {
		t.Errorf("prevCluster at 4 = %d, expected 3", got)
	}
	if got := nextCluster(line, len(line)); got != 0 {
		t.Errorf("nextCluster at end = %d, expected 0", got)
	}
	if got := prevCluster(line, 0); got != 0 {
		t.Errorf("prevCluster at 0 = %d, expected 0", got)
	}
}
