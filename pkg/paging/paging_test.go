package paging

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -3, 10, 1, 10},
		{"size above max", 2, 500, 2, 100},
		{"in range", 3, 50, 3, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, s := Clamp(tc.page, tc.size, 20, 100)
			if p != tc.wantPage || s != tc.wantSize {
				t.Fatalf("Clamp(%d,%d) = (%d,%d), want (%d,%d)", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 20); got != 0 {
		t.Errorf("Offset(1,20) = %d, want 0", got)
	}
	if got := Offset(4, 25); got != 75 {
		t.Errorf("Offset(4,25) = %d, want 75", got)
	}
}

func TestPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 33, 4},
	}
	for _, tc := range cases {
		if got := Pages(tc.total, tc.size); got != tc.want {
			t.Errorf("Pages(%d,%d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
