package svgparse

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"golang.org/x/net/html/charset"
)

// element is a snapshot of a start tag.
type element struct {
	name  string
	depth int // 0 for the root
	attrs map[string]string

	line, col int
}

func newElement(se xml.StartElement, depth, line, col int) *element {
	el := &element{name: se.Name.Local, depth: depth, line: line, col: col, attrs: make(map[string]string, len(se.Attr))}
	for _, attr := range se.Attr {
		key := attr.Name.Local
		if attr.Name.Space != "" {
			if key == "href" {
				el.attrs["xlink:href"] = attr.Value
			}
			if _, has := el.attrs[key]; has {
				continue // the plain attribute takes precedence
			}
		}
		el.attrs[key] = attr.Value
	}
	return el
}

// elementCursor walks the elements of a document, one level
// at a time, on top of the xml tokenizer.
type elementCursor struct {
	dec *xml.Decoder

	level   int      // number of open elements
	current *element // last start tag read
	visited bool     // current has been returned by visitCurrent
}

func newElementCursor(r io.Reader) *elementCursor {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity
	return &elementCursor{dec: dec}
}

func (c *elementCursor) malformed(err error) error {
	line, col := c.dec.InputPos()
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		line = syntax.Line
	}
	return svgerr.At(svgerr.New(svgerr.MalformedDocument, "%s", err), line, col)
}

// next returns the next token, updating the nesting level.
// An EOF with open elements is an error.
func (c *elementCursor) next() (xml.Token, error) {
	tok, err := c.dec.Token()
	if err == io.EOF {
		if c.level > 0 {
			return nil, c.malformed(io.ErrUnexpectedEOF)
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, c.malformed(err)
	}
	switch t := tok.(type) {
	case xml.StartElement:
		line, col := c.dec.InputPos()
		c.current = newElement(t, c.level, line, col)
		c.visited = false
		c.level++
	case xml.EndElement:
		c.level--
	}
	return tok, nil
}

// goToRoot advances to the first element, and returns true
// if its name is `name`.
func (c *elementCursor) goToRoot(name string) (bool, error) {
	for {
		tok, err := c.next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if _, ok := tok.(xml.StartElement); ok {
			return c.current.depth == 0 && c.current.name == name, nil
		}
	}
}

// visitCurrent returns the element the cursor is on.
func (c *elementCursor) visitCurrent() *element {
	c.visited = true
	return c.current
}

// goToNextChild advances to the next direct child of `parent`,
// skipping deeper elements, and returns false once the
// end tag of `parent` has been consumed.
func (c *elementCursor) goToNextChild(parent *element) (bool, error) {
	if c.current != nil && !c.visited {
		return c.current.depth == parent.depth+1, nil
	}
	for c.level > parent.depth {
		tok, err := c.next()
		if err == io.EOF {
			return false, c.malformed(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return false, err
		}
		if _, ok := tok.(xml.StartElement); ok {
			if c.current.depth == parent.depth+1 {
				return true, nil
			}
			c.visited = true // deeper descendant, skipped
		}
	}
	return false, nil
}

// skipSubtree consumes the content of `el`, which must
// be the visited current element.
func (c *elementCursor) skipSubtree(el *element) error {
	for {
		ok, err := c.goToNextChild(el)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := c.skipSubtree(c.visitCurrent()); err != nil {
			return err
		}
	}
}

// readInnerText consumes the content of `el` and returns the
// concatenation of its text, including the text of nested elements.
func (c *elementCursor) readInnerText(el *element) (string, error) {
	var sb strings.Builder
	for c.level > el.depth {
		tok, err := c.next()
		if err == io.EOF {
			return "", c.malformed(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return "", err
		}
		if data, ok := tok.(xml.CharData); ok {
			sb.Write(data)
		}
	}
	c.visited = true
	return sb.String(), nil
}
