// Package phrase turns spoken or typed move descriptions into board cells.
package phrase

import (
	"strconv"
	"strings"
	"unicode"
)

type position struct {
	name string
	cell int
}

// positions is matched in order by substring; composite names come before
// the bare centre words they contain.
var positions = []position{
	{"top left", 0},
	{"top middle", 1},
	{"top center", 1},
	{"top centre", 1},
	{"top mid", 1},
	{"top right", 2},
	{"middle left", 3},
	{"center left", 3},
	{"centre left", 3},
	{"mid left", 3},
	{"middle right", 5},
	{"center right", 5},
	{"centre right", 5},
	{"mid right", 5},
	{"bottom left", 6},
	{"bottom middle", 7},
	{"bottom center", 7},
	{"bottom centre", 7},
	{"bottom mid", 7},
	{"bottom right", 8},
	{"center", 4},
	{"centre", 4},
	{"middle", 4},
	{"mid", 4},
}

var numbers = map[string]int{
	"one":    1,
	"1":      1,
	"first":  1,
	"two":    2,
	"2":      2,
	"second": 2,
	"three":  3,
	"3":      3,
	"third":  3,
}

var columnLetters = map[byte]int{'a': 1, 'b': 2, 'c': 3}

// Parse returns the cell described by text, false when it is not understood.
func Parse(text string) (int, bool) {
	text = normalize(text)
	if text == "" {
		return 0, false
	}

	for _, pos := range positions {
		if strings.Contains(text, pos.name) {
			return pos.cell, true
		}
	}

	tokens := strings.Fields(text)

	if cell, ok := parseRowColumn(tokens); ok {
		return cell, true
	}

	if cell, ok := parseNumberPair(tokens); ok {
		return cell, true
	}

	return parseGridToken(tokens)
}

// ParseWithFallback - Parse, then a single digit 1..9 counted from the top left.
func ParseWithFallback(text string) (int, bool) {
	if cell, ok := Parse(text); ok {
		return cell, true
	}

	for _, token := range strings.Fields(text) {
		if !isDigits(token) {
			continue
		}
		if v, err := strconv.Atoi(token); err == nil && v >= 1 && v <= 9 {
			return v - 1, true
		}
	}

	return 0, false
}

func normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.NewReplacer("-", " ", ",", " ").Replace(text)
	return strings.TrimSpace(text)
}

// parseRowColumn - "row two column three", "col 1 row 3".
func parseRowColumn(tokens []string) (int, bool) {
	var row, col int
	found := false

	for i, token := range tokens {
		if token != "row" && token != "column" && token != "col" {
			continue
		}

		found = true
		if i+1 >= len(tokens) {
			continue
		}

		n := numbers[tokens[i+1]]
		if token == "row" {
			row = n
		} else {
			col = n
		}
	}

	if !found || row == 0 || col == 0 {
		return 0, false
	}

	return cellAt(row, col)
}

// parseNumberPair - the first two numbers are taken as row and column.
func parseNumberPair(tokens []string) (int, bool) {
	values := make([]int, 0, 2)

	for _, token := range tokens {
		if v, ok := numbers[token]; ok {
			values = append(values, v)
		} else if isDigits(token) {
			v, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			values = append(values, v)
		}

		if len(values) == 2 {
			return cellAt(values[0], values[1])
		}
	}

	return 0, false
}

// parseGridToken - "b2" style: letter is the column, digit the row.
func parseGridToken(tokens []string) (int, bool) {
	for _, token := range tokens {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, token)

		if len(clean) != 2 || clean[1] < '0' || clean[1] > '9' {
			continue
		}

		col, ok := columnLetters[clean[0]]
		if !ok {
			continue
		}

		if cell, ok := cellAt(int(clean[1]-'0'), col); ok {
			return cell, true
		}
	}

	return 0, false
}

func cellAt(row, col int) (int, bool) {
	if row < 1 || row > 3 || col < 1 || col > 3 {
		return 0, false
	}

	return (row-1)*3 + (col - 1), true
}

func isDigits(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return token != ""
}
