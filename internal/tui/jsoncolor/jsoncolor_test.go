package jsoncolor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorize_ValidJSON(t *testing.T) {
	input := []byte(`{"name":"test","count":42,"active":true,"tags":["a","b"],"meta":null}`)
	result := Colorize(input)

	assert.Contains(t, result, "name")
	assert.Contains(t, result, "test")
	assert.Contains(t, result, "42")
	assert.Contains(t, result, "true")
	assert.Contains(t, result, "null")
	assert.Contains(t, result, "\n", "expected indented multi-line output")
}

func TestColorize_InvalidJSON(t *testing.T) {
	result := Colorize([]byte(`not json at all`))
	assert.Equal(t, "not json at all", result)
}

func TestColorize_EscapedQuotes(t *testing.T) {
	result := Colorize([]byte(`{"msg":"say \"hi\""}`))
	assert.Contains(t, result, `\"hi\"`)
}

func TestColorize_EmptyObject(t *testing.T) {
	result := Colorize([]byte(`{}`))
	assert.Contains(t, result, "{")
	assert.Contains(t, result, "}")
}
