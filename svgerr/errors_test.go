package svgerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewAt(MalformedNumber, "d", 4, "invalid number %q", "-")
	assert.Equal(t, `SVG Error: invalid number "-" (attribute "d")`, err.Error())

	located := At(err, 3, 12)
	assert.Equal(t, `SVG Error (line 3, character 12): invalid number "-" (attribute "d")`, located.Error())
	assert.True(t, Is(located, MalformedNumber))
	assert.False(t, Is(located, InvalidTransform))

	// the first location wins
	assert.Equal(t, located.Error(), At(located, 8, 1).Error())
}

func TestWrapForeign(t *testing.T) {
	err := At(fmt.Errorf("unexpected EOF"), 2, 5)
	assert.True(t, Is(err, MalformedDocument))
	assert.Nil(t, At(nil, 1, 1))
	assert.False(t, Is(fmt.Errorf("plain"), MalformedDocument))
}

func TestWithAttr(t *testing.T) {
	err := WithAttr(New(UnknownColorName, "unknown color %q", "bleu"), "fill")
	assert.Contains(t, err.Error(), `(attribute "fill")`)
	// already named
	err = WithAttr(err, "stroke")
	assert.Contains(t, err.Error(), `(attribute "fill")`)
}
