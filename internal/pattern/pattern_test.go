package pattern

import "testing"

func TestIsNumber(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"0", true},
		{"42", true},
		{"-7", true},
		{"+3.25", true},
		{".5", true},
		{"  12  ", true},
		{"", false},
		{"-", false},
		{"1.", false},
		{"1e5", false},
		{"12abc", false},
		{"1.2.3", false},
		{"0x10", false},
	}
	for _, tt := range tests {
		if got := IsNumber(tt.s); got != tt.want {
			t.Errorf("IsNumber(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestCompileFold(t *testing.T) {
	re, err := Compile(`^declare\s`, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("DECLARE x") {
		t.Error("folded pattern did not match upper case")
	}

	exact := MustCompile(`^declare`, false)
	if exact.MatchString("DECLARE") {
		t.Error("unfolded pattern matched upper case")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile(`(`, false); err == nil {
		t.Error("expected error for unbalanced parenthesis")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	MustCompile(`[`, false)
}

func TestFindLastIndex(t *testing.T) {
	re := MustCompile(`[A-Za-z]+`, false)
	s := "x <- foo + bar"
	if loc := re.FindLastIndex(s); loc == nil || s[loc[0]:loc[1]] != "bar" {
		t.Errorf("FindLastIndex = %v", loc)
	}
	if loc := re.FindLastIndex("123"); loc != nil {
		t.Errorf("FindLastIndex on no match = %v, want nil", loc)
	}
}
