package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"id", "gender"}, [][]string{{"1", "female"}, {"2", "male"}})

	for _, want := range []string{"id", "gender", "female", "male", "╭", "╯"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderTable_NoRows(t *testing.T) {
	out := RenderTable([]string{"id"}, nil)
	assert.Contains(t, out, "id")
}
