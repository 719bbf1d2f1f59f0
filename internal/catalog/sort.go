package catalog

import (
	"math"
	"slices"
	"strings"

	"github.com/starford/recipebook/internal/models"
)

type compareFunc func(a, b models.Recipe) int

func byRatingDesc(a, b models.Recipe) int {
	switch {
	case a.Rating > b.Rating:
		return -1
	case a.Rating < b.Rating:
		return 1
	}
	return 0
}

func byTimeAsc(a, b models.Recipe) int {
	return leadingInt(a.Time) - leadingInt(b.Time)
}

func byIDAsc(a, b models.Recipe) int {
	return strings.Compare(a.ID, b.ID)
}

// comparators maps each strategy to its ordering. popular and rating
// intentionally share byRatingDesc.
var comparators = map[SortStrategy]compareFunc{
	SortPopular: byRatingDesc,
	SortRating:  byRatingDesc,
	SortTime:    byTimeAsc,
	SortNew:     byIDAsc,
}

// sortRecipes orders list in place. Equal elements keep their input order.
// Unknown strategies leave the list untouched.
func sortRecipes(list []models.Recipe, s SortStrategy) {
	cmp, ok := comparators[s]
	if !ok {
		return
	}
	slices.SortStableFunc(list, cmp)
}

// leadingInt parses the integer prefix of s the way a lenient form parser
// would: leading whitespace, an optional sign, then digits. Anything else
// yields 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	digits := 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		// Saturate so very long numbers still order after shorter ones.
		n = min(n*10+int64(s[digits]-'0'), math.MaxInt32)
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return int(-n)
	}
	return int(n)
}
