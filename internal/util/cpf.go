package util

import "strings"

// CleanCPF strips everything that is not a digit.
func CleanCPF(cpf string) string {
	var b strings.Builder
	b.Grow(len(cpf))
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// allSameDigit reports whether the CPF is a repeated single digit,
// which passes the check-digit math but is not a valid document.
func allSameDigit(cpf string) bool {
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			return false
		}
	}
	return true
}

// ValidCPF validates a Brazilian CPF, accepting formatted or bare input.
func ValidCPF(cpf string) bool {
	c := CleanCPF(cpf)

	if len(c) != 11 || allSameDigit(c) {
		return false
	}

	digits := make([]int, 11)
	for i := 0; i < 11; i++ {
		digits[i] = int(c[i] - '0')
	}

	// First check digit over positions 0-8, weights 10..2.
	sum := 0
	for i := 0; i < 9; i++ {
		sum += digits[i] * (10 - i)
	}
	dv1 := (sum * 10) % 11
	if dv1 == 10 {
		dv1 = 0
	}
	if dv1 != digits[9] {
		return false
	}

	// Second check digit over positions 0-9, weights 11..2.
	sum = 0
	for i := 0; i < 10; i++ {
		sum += digits[i] * (11 - i)
	}
	dv2 := (sum * 10) % 11
	if dv2 == 10 {
		dv2 = 0
	}
	return dv2 == digits[10]
}

// FormatCPF renders a CPF as 000.000.000-00. Input that does not have
// 11 digits is returned cleaned but unformatted.
func FormatCPF(cpf string) string {
	c := CleanCPF(cpf)
	if len(c) != 11 {
		return c
	}
	return c[0:3] + "." + c[3:6] + "." + c[6:9] + "-" + c[9:11]
}
