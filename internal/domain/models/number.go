package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
)

// ParseNumber coerces a token to a float, leaving the result invalid
// when the token is empty, not numeric, or not finite.
func ParseNumber(s string) null.Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
