package domain

import "fmt"

// FormatSeconds renders a second count as MM:SS, or HH:MM:SS above an
// hour. Negative values (overtime) are prefixed with "+".
func FormatSeconds(total int) string {
	sign := ""
	if total < 0 {
		sign = "+"
		total = -total
	}
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m, s)
}
