// Package svgstyle resolves the value of presentation
// properties, combining CSS style sheets, inline styles
// and raw attributes.
//
// Only single level selectors (#id, .class and tag) are matched.
package svgstyle

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/svgscene/svgerr"
)

// Declarations maps CSS properties to their values.
type Declarations map[string]string

func fromCSS(decls []*css.Declaration) Declarations {
	out := make(Declarations, len(decls))
	for _, d := range decls {
		value := strings.TrimSpace(d.Value)
		if value == "" {
			continue // an empty value must not shadow the other sources
		}
		out[strings.TrimSpace(d.Property)] = value
	}
	return out
}

// StyleSheet is an ordered list of rules, indexed by selector.
type StyleSheet struct {
	order []string
	rules map[string]Declarations
}

// NewStyleSheet returns an empty sheet.
func NewStyleSheet() *StyleSheet {
	return &StyleSheet{rules: make(map[string]Declarations)}
}

// Selectors returns the selectors in declaration order.
func (s *StyleSheet) Selectors() []string { return s.order }

// Rule returns the declarations of `selector`.
func (s *StyleSheet) Rule(selector string) (Declarations, bool) {
	decls, ok := s.rules[selector]
	return decls, ok
}

// Set merges `decls` into the rule for `selector`, which
// becomes the last declared one.
func (s *StyleSheet) Set(selector string, decls Declarations) {
	existing, ok := s.rules[selector]
	if ok {
		for i, sel := range s.order {
			if sel == selector {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	} else {
		existing = make(Declarations, len(decls))
		s.rules[selector] = existing
	}
	for k, v := range decls {
		existing[k] = v
	}
	s.order = append(s.order, selector)
}

// Merge adds all the rules of `other`, in order.
func (s *StyleSheet) Merge(other *StyleSheet) {
	for _, sel := range other.order {
		s.Set(sel, other.rules[sel])
	}
}

// lookup returns the value of `prop` in the rule matching `selector`
func (s *StyleSheet) lookup(selector, prop string) (string, bool) {
	if selector == "" {
		return "", false
	}
	decls, ok := s.rules[selector]
	if !ok {
		return "", false
	}
	v, ok := decls[prop]
	return v, ok
}

// ParseStyleSheet parses the content of a <style> element.
// At-rules are ignored.
func ParseStyleSheet(text string) (*StyleSheet, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, svgerr.New(svgerr.InvalidAttributeValue, "invalid style sheet: %s", err)
	}
	out := NewStyleSheet()
	for _, rule := range sheet.Rules {
		if rule.Kind == css.AtRule {
			continue
		}
		decls := fromCSS(rule.Declarations)
		for _, sel := range rule.Selectors {
			out.Set(strings.TrimSpace(sel), decls)
		}
	}
	return out, nil
}

// ParseInline parses the content of a 'style' attribute.
func ParseInline(style string) (Declarations, error) {
	// the last declaration is only complete with a trailing ';'
	if trimmed := strings.TrimSpace(style); trimmed != "" && !strings.HasSuffix(trimmed, ";") {
		style = trimmed + ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil, svgerr.NewAt(svgerr.InvalidAttributeValue, "style", -1, "invalid inline style: %s", err)
	}
	return fromCSS(decls), nil
}
