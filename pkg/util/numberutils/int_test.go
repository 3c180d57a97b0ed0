package numberutils

import "testing"

func TestToIntWithDefault(t *testing.T) {
	if got := ToIntWithDefault("42", 7); got != 42 {
		t.Errorf("ToIntWithDefault(\"42\") = %d, want 42", got)
	}
	if got := ToIntWithDefault("abc", 7); got != 7 {
		t.Errorf("ToIntWithDefault(\"abc\") = %d, want 7", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ value, want int }{
		{-3, 0},
		{5, 5},
		{200, 100},
	}
	for _, c := range cases {
		if got := Clamp(c.value, 0, 100); got != c.want {
			t.Errorf("Clamp(%d) = %d, want %d", c.value, got, c.want)
		}
	}
}
