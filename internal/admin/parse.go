package admin

import (
	"strconv"
	"strings"
)

// ParseYear parses a year field. Unparseable input and 0 both mean "no year".
func ParseYear(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// ParseOrder parses an order field, falling back to 0.
func ParseOrder(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
