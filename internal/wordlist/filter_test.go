package wordlist

import "testing"

func TestValidTarget(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Omi", true},
		{"Ẹ káàárọ̀", true},
		{"Báwo ni?", true},
		{"ọmọ-ọba", true},
		{"", false},
		{"123", false},
		{"omi\tx", false},
		{"̀a", false},
		{"...", false},
	}
	for _, tc := range tests {
		if got := ValidTarget(tc.in); got != tc.want {
			t.Fatalf("ValidTarget(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
