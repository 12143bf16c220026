package domain

import (
	"strings"
	"unicode"
)

// DefaultBaselinePrice is charged when a plan carries no usable price.
const DefaultBaselinePrice int64 = 1000

// ParsePrice reads a whole-unit price from free text such as "$1,200 - $1,800".
// Currency symbols and commas are removed, the first hyphen-delimited segment
// is kept and its leading integer is used. Zero or unparseable input yields
// baseline.
func ParsePrice(text string, baseline int64) int64 {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, text)

	first, _, _ := strings.Cut(cleaned, "-")
	if v := leadingInt(first); v > 0 {
		return int64(v)
	}
	return baseline
}
