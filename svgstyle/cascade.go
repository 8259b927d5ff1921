package svgstyle

import (
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
)

// Limit restricts the frames visited by Evaluate.
type Limit uint8

const (
	// Single only looks at the current element.
	Single Limit = iota
	// Hierarchy walks up the open elements until a value is found.
	Hierarchy
)

type frame struct {
	name    string
	id      string
	classes []string // most recently declared first
	inline  Declarations
	attrs   map[string]string
}

// Cascade tracks the style scopes of the currently open elements.
// The zero value is not usable: see NewCascade.
type Cascade struct {
	global *StyleSheet
	frames []frame
}

func NewCascade() *Cascade {
	return &Cascade{global: NewStyleSheet()}
}

// AddGlobal merges `sheet` into the document style sheet.
func (c *Cascade) AddGlobal(sheet *StyleSheet) { c.global.Merge(sheet) }

// Depth returns the number of open elements.
func (c *Cascade) Depth() int { return len(c.frames) }

// PushNode opens a new scope for the element `name`, with
// raw attributes `attrs`.
func (c *Cascade) PushNode(name string, attrs map[string]string) error {
	f := frame{name: name, id: attrs["id"], attrs: attrs}
	f.classes = c.sortedClasses(strings.Fields(attrs["class"]))
	if style, ok := attrs["style"]; ok {
		decls, err := ParseInline(style)
		if err != nil {
			return err
		}
		f.inline = decls
	}
	c.frames = append(c.frames, f)
	return nil
}

// PopNode closes the innermost scope.
func (c *Cascade) PopNode() error {
	if len(c.frames) == 0 {
		return svgerr.New(svgerr.StackMismatch, "style cascade popped past its depth")
	}
	c.frames = c.frames[:len(c.frames)-1]
	return nil
}

// sortedClasses keeps the classes used in the global sheet, the last
// declared selector first.
func (c *Cascade) sortedClasses(classes []string) []string {
	if len(classes) == 0 {
		return nil
	}
	var out []string
	sels := c.global.order
	for i := len(sels) - 1; i >= 0; i-- {
		sel := sels[i]
		if !strings.HasPrefix(sel, ".") {
			continue
		}
		for _, class := range classes {
			if class == sel[1:] {
				out = append(out, class)
				break
			}
		}
	}
	return out
}

// Evaluate returns the value of `prop` for the current element.
// For each visited element, the sources are tried in order:
// inline style, #id rule, class rules, tag rule and finally the raw attribute.
func (c *Cascade) Evaluate(prop string, limit Limit) (string, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if v, ok := c.lookup(&c.frames[i], prop); ok {
			return v, true
		}
		if limit == Single {
			break
		}
	}
	return "", false
}

func (c *Cascade) lookup(f *frame, prop string) (string, bool) {
	if v, ok := f.inline[prop]; ok {
		return v, true
	}
	if f.id != "" {
		if v, ok := c.global.lookup("#"+f.id, prop); ok {
			return v, true
		}
	}
	for _, class := range f.classes {
		if v, ok := c.global.lookup("."+class, prop); ok {
			return v, true
		}
	}
	if v, ok := c.global.lookup(f.name, prop); ok {
		return v, true
	}
	v, ok := f.attrs[prop]
	return v, ok
}
