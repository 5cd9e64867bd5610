package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInlineFormatting(t *testing.T) {
	md, err := New().Normalize(`Read <strong>this</strong> and <a href="https://example.com">that</a>`)
	require.NoError(t, err)
	assert.Contains(t, md, "**this**")
	assert.Contains(t, md, "[that](https://example.com)")
}

func TestNormalizeEmpty(t *testing.T) {
	md, err := New().Normalize(" \n")
	require.NoError(t, err)
	assert.Empty(t, md)
}
