package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldsSpy struct {
	noopLogger
	got map[string]any
}

func (s *fieldsSpy) WithFields(fields map[string]any) Logger {
	s.got = fields
	return s
}

func (s *fieldsSpy) WithContext(context.Context) Logger { return s }

func TestOrNoOp(t *testing.T) {
	assert.NotNil(t, OrNoOp(nil))

	spy := &fieldsSpy{}
	assert.Same(t, spy, OrNoOp(spy))
}

func TestWithFieldsCopies(t *testing.T) {
	spy := &fieldsSpy{}
	fields := map[string]any{"page": "abc"}

	WithFields(spy, fields)
	fields["page"] = "changed"

	assert.Equal(t, "abc", spy.got["page"])
}

func TestWithFieldsWithoutSupport(t *testing.T) {
	l := NoOp()
	assert.Equal(t, l, WithFields(l, map[string]any{"k": "v"}))
	assert.Nil(t, WithFields(nil, map[string]any{"k": "v"}))
}

func TestModuleNilProvider(t *testing.T) {
	assert.Equal(t, NoOp(), Module(nil, "sync"))

	var p *Provider
	assert.Equal(t, NoOp(), p.GetLogger("sync"))
}

func TestNewProvider(t *testing.T) {
	for _, format := range []string{"", "console", "JSON", "pretty"} {
		p, err := NewProvider(Config{Level: "debug", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, p.GetLogger("sync"))
	}

	_, err := NewProvider(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "", normalizeLevel("loud"))
	assert.NotEmpty(t, normalizeLevel(" Warning "))
}
