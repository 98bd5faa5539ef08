package css

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Nth is the An+B form used by the positional pseudo classes.
type Nth struct {
	A int
	B int
}

func (n Nth) String() string {
	if n.A == 0 {
		return strconv.Itoa(n.B)
	}
	if n.B < 0 {
		return fmt.Sprintf("%dn%d", n.A, n.B)
	}
	return fmt.Sprintf("%dn+%d", n.A, n.B)
}

// Match reports whether the 1-based position pos is selected.
func (n Nth) Match(pos int) bool {
	if n.A == 0 {
		return pos == n.B
	}
	diff := pos - n.B
	if diff%n.A != 0 {
		return false
	}
	return diff/n.A >= 0
}

var signedOffset = regexp.MustCompile(`^\s*([+\-])\s*([+\-]?\d+)$`)

func parseNth(str string) (Nth, error) {
	var (
		nth Nth
		err error
	)
	coef, offset, ok := strings.Cut(strings.ToLower(str), "n")
	if !ok {
		return nth, fmt.Errorf("%s: %w", str, errNth)
	}
	switch coef {
	case "", "+":
		nth.A = 1
	case "-":
		nth.A = -1
	default:
		if nth.A, err = strconv.Atoi(coef); err != nil {
			return nth, fmt.Errorf("%s: %w", str, errNth)
		}
	}
	nth.B, err = parseOffset(offset)
	if err != nil {
		return nth, fmt.Errorf("%s: %w", str, errNth)
	}
	return nth, nil
}

func parseOffset(str string) (int, error) {
	if str = strings.TrimSpace(str); str == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(str); err == nil {
		return n, nil
	}
	parts := signedOffset.FindStringSubmatch(str)
	if parts == nil {
		return 0, errNth
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, err
	}
	if parts[1] == "-" {
		n = -n
	}
	return n, nil
}
