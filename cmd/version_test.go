package cmd

import "testing"

func TestCanonicalVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"v1.2.3", "v1.2.3"},
		{"1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"v1.2.3+meta", "v1.2.3"},
		{"v0.4.0-rc.1", "v0.4.0-rc.1"},
		{"(devel)", "(devel)"},
		{"", "(devel)"},
		{"banana", "(devel)"},
	}
	for _, tt := range tests {
		if got := canonicalVersion(tt.in); got != tt.want {
			t.Errorf("canonicalVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
