// Package svgpath implements the micro languages found in
// SVG attributes: path data, transform lists, paints and colors,
// lengths with units and number lists.
//
// All the parsers are pure functions over strings.
package svgpath

import (
	"math"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/tdewolff/parse/v2/strconv"
)

// epsilon is the tolerance used for flags and degenerated arcs
const epsilon = 1e-6

// scanner is a cursor over an attribute value
type scanner struct {
	attr string // used in error messages
	s    string
	pos  int
}

func isSeparator(c byte) bool {
	switch c {
	case ' ', '\r', '\n', '\t', ',':
		return true
	}
	return false
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func (sc *scanner) skipSeparators() {
	for sc.pos < len(sc.s) && isSeparator(sc.s[sc.pos]) {
		sc.pos++
	}
}

// atEnd skips the separators and returns true if the whole
// input has been consumed.
func (sc *scanner) atEnd() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

// peekSymbol skips the separators and returns true if the next char is `c`.
func (sc *scanner) peekSymbol(c byte) bool {
	sc.skipSeparators()
	return sc.pos < len(sc.s) && sc.s[sc.pos] == c
}

func (sc *scanner) skipSymbol(c byte, kind svgerr.Kind) error {
	if !sc.peekSymbol(c) {
		return svgerr.NewAt(kind, sc.attr, sc.pos, "expected %q at %d of %q", c, sc.pos, sc.s)
	}
	sc.pos++
	return nil
}

// numberEnd returns the end of the numeric token starting at `start`, following
// the restricted grammar: an optional '-', digits with at most one '.', at
// most one exponent with an optional '-' followed by digits.
func numberEnd(s string, start int) int {
	i := start
	if i < len(s) && s[i] == '-' {
		i++
	}
	gotPeriod, gotE := false, false
	for i < len(s) {
		c := s[i]
		if !gotPeriod && c == '.' {
			gotPeriod = true
			i++
			continue
		}
		if !gotE && (c == 'e' || c == 'E') {
			// an exponent needs digits, "1em" is a number then a unit
			j := i + 1
			if j < len(s) && s[j] == '-' {
				j++
			}
			if j >= len(s) || !isDigit(s[j]) {
				break
			}
			gotE = true
			i = j
			continue
		}
		if !isDigit(c) {
			break
		}
		i++
	}
	return i
}

// nextFloat reads one number. Numbers may abut: "1.5.5" is 1.5 then .5
func (sc *scanner) nextFloat() (float64, error) {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return 0, svgerr.NewAt(svgerr.MalformedNumber, sc.attr, sc.pos,
			"%q ended before sufficing numbers", sc.s)
	}
	start := sc.pos
	end := numberEnd(sc.s, start)
	token := sc.s[start:end]
	if token == "" || token == "-" {
		return 0, svgerr.NewAt(svgerr.MalformedNumber, sc.attr, start, "missing number at %d in %q", start, sc.s)
	}
	f, n := strconv.ParseFloat([]byte(token))
	if n != len(token) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, svgerr.NewAt(svgerr.MalformedNumber, sc.attr, start, "invalid number %q at %d", token, start)
	}
	sc.pos = end
	return f, nil
}

func (sc *scanner) nextPoint() (svgscene.Point, error) {
	x, err := sc.nextFloat()
	if err != nil {
		return svgscene.Point{}, err
	}
	y, err := sc.nextFloat()
	if err != nil {
		return svgscene.Point{}, err
	}
	return svgscene.Point{X: x, Y: y}, nil
}

// nextFlag reads a number, interpreted as a boolean.
func (sc *scanner) nextFlag() (bool, error) {
	f, err := sc.nextFloat()
	return math.Abs(f) > epsilon, err
}

// nextWord reads a run of ASCII letters.
func (sc *scanner) nextWord() string {
	sc.skipSeparators()
	start := sc.pos
	for sc.pos < len(sc.s) && isLetter(sc.s[sc.pos]) {
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

// ParseFloat parses a whole string as one number.
func ParseFloat(s string) (float64, error) {
	sc := scanner{s: s}
	f, err := sc.nextFloat()
	if err != nil {
		return 0, err
	}
	if !sc.atEnd() {
		return 0, svgerr.NewAt(svgerr.MalformedNumber, "", sc.pos, "invalid number %q", s)
	}
	return f, nil
}

// ParseNumbers parses a list of numbers separated by commas
// or white spaces, as found in 'points', 'viewBox' or 'stroke-dasharray'.
func ParseNumbers(s string) ([]float64, error) {
	sc := scanner{s: s}
	var out []float64
	for !sc.atEnd() {
		f, err := sc.nextFloat()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
