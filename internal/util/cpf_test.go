package util

import "testing"

func TestValidCPF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cpf  string
		want bool
	}{
		{name: "valid bare", cpf: "11144477735", want: true},
		{name: "valid formatted", cpf: "111.444.777-35", want: true},
		{name: "wrong check digit", cpf: "11144477736", want: false},
		{name: "repeated digits", cpf: "11111111111", want: false},
		{name: "repeated digits formatted", cpf: "000.000.000-00", want: false},
		{name: "too short", cpf: "1114447773", want: false},
		{name: "too long", cpf: "111444777350", want: false},
		{name: "empty", cpf: "", want: false},
		{name: "letters only", cpf: "abcdefghijk", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ValidCPF(tt.cpf); got != tt.want {
				t.Errorf("ValidCPF(%q) = %v, want %v", tt.cpf, got, tt.want)
			}
		})
	}
}

func TestCleanCPF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"111.444.777-35", "11144477735"},
		{"11144477735", "11144477735"},
		{"abc123", "123"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCPF(tt.in); got != tt.want {
			t.Errorf("CleanCPF(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCPF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"11144477735", "111.444.777-35"},
		{"111.444.777-35", "111.444.777-35"},
		{"123", "123"},
	}

	for _, tt := range tests {
		if got := FormatCPF(tt.in); got != tt.want {
			t.Errorf("FormatCPF(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
