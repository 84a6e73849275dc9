package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// parsePeriodArgs reads "<year> <month>" arguments
func parsePeriodArgs(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected <year> <month>, got %d arguments", len(args))
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("year must be a number, got: %s", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("month must be a number, got: %s", args[1])
	}
	return year, month, nil
}

// healthColor picks a color for a health score: green from 80, yellow from 60, red below
func healthColor(score int, green, yellow, red string) string {
	switch {
	case score >= 80:
		return green
	case score >= 60:
		return yellow
	default:
		return red
	}
}

// signed renders a delta with an explicit sign, or "-" for no change
func signed(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%+d", n)
}

// bar renders a value as a row of blocks, one per two points
func bar(value int) string {
	if value <= 0 {
		return ""
	}
	return strings.Repeat("█", (value+1)/2)
}

// columnWidth returns the widest of the values, at least min
func columnWidth(min int, values ...string) int {
	width := min
	for _, v := range values {
		if n := len([]rune(v)); n > width {
			width = n
		}
	}
	return width
}
