package domain

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xmlStart(name string, attrs ...string) xml.StartElement {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}

	return start
}

func TestIntField_Resolve(t *testing.T) {
	field := intField{names: []string{"failures", "failed"}}

	value, present, err := field.resolve(xmlStart("r", "failed", "3"))
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, 3, value)

	value, _, err = field.resolve(xmlStart("r", "failures", "1", "failed", "3"))
	require.NoError(t, err)
	assert.Equal(t, 1, value, "first candidate wins")

	value, present, err = field.resolve(xmlStart("r"))
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, 0, value)

	_, _, err = field.resolve(xmlStart("r", "failures", "x"))
	require.Error(t, err)
}

func TestIntField_Required(t *testing.T) {
	field := intField{names: []string{"total"}, required: true}

	_, _, err := field.resolve(xmlStart("test-results"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing attribute "total" in element <test-results>`)
}

func TestLookupAttr(t *testing.T) {
	start := xmlStart("testcase", "name", "a", "classname", "")

	value, ok := lookupAttr(start, "classname")
	assert.True(t, ok)
	assert.Empty(t, value)

	_, ok = lookupAttr(start, "filename")
	assert.False(t, ok)
	assert.Equal(t, "a", attrOrEmpty(start, "name"))
}
