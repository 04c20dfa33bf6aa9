package entity

import "strings"

// FormatCPF strips everything but digits.
func FormatCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF runs the standard Brazilian CPF check-digit algorithm on
// an already formatted (digits-only) value.
func ValidCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	digit := func(prefix int) int {
		sum := 0
		for i := 0; i < prefix; i++ {
			sum += int(cpf[i]-'0') * (prefix + 1 - i)
		}
		d := 11 - sum%11
		if d > 9 {
			d = 0
		}
		return d
	}

	if digit(9) != int(cpf[9]-'0') {
		return false
	}
	return digit(10) == int(cpf[10]-'0')
}
