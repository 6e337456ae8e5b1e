package problemgen

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// CheckAnswer compares the learner's input against the correct answer.
// Returns true if the answer is correct.
//
// Normalization rules:
// - Whitespace is trimmed
// - Comparison is case-insensitive
// - Numbers compare by value across forms: "2/4" matches "1/2",
// "3.50" matches "3.5", "007" matches "7" and "0.5" matches "1/2"
func CheckAnswer(learnerAnswer string, question *Question) bool {
	return answersEqual(learnerAnswer, question.Answer)
}

// answersEqual reports whether two answers are the same number, or the same
// text ignoring case and surrounding space.
func answersEqual(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	ra, errA := parseNumber(a)
	rb, errB := parseNumber(b)
	if errA != nil || errB != nil {
		return false
	}
	return ra.Cmp(rb) == 0
}

var decimalPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// parseNumber reads an integer, decimal or a/b fraction as an exact rational.
func parseNumber(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		num, den, err := parseFraction(s)
		if err != nil {
			return nil, err
		}
		if den == 0 {
			return nil, fmt.Errorf("zero denominator")
		}
		return big.NewRat(num, den), nil
	}
	if !decimalPattern.MatchString(s) {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return r, nil
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// abs returns the absolute value of n.
func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
