package asset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notionpipe/core"
)

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("![Team photo](https://s3.test/a.jpg?fm=jpg&sig=x)\n")
	require.NoError(t, err)
	assert.Equal(t, "Team photo", ref.Name)
	assert.Equal(t, "https://s3.test/a.jpg?fm=jpg&sig=x", ref.URL)

	ref, err = ParseReference("![](https://s3.test/a.png)")
	require.NoError(t, err)
	assert.Empty(t, ref.Name)
}

func TestParseReferenceRejectsMalformedMarkup(t *testing.T) {
	for _, markup := range []string{
		"[link](https://s3.test/a.png)",
		"![caption]",
		"![caption](https://s3.test/a.png) trailing",
		"![a](b)(c)",
		"![caption](has space)",
	} {
		_, err := ParseReference(markup)
		var malformed *core.MalformedReferenceError
		assert.True(t, errors.As(err, &malformed), markup)
	}
}
