package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDeduplicatesBySource(t *testing.T) {
	p := NewPlan("images/post/")

	first, isNew := p.Add("Diagram", "https://s3.test/a.png?sig=1")
	require.True(t, isNew)
	again, isNew := p.Add("Other caption", "https://s3.test/a.png?sig=2")
	require.False(t, isNew)

	assert.Equal(t, first, again)
	assert.Equal(t, "images/post/diagram.png", first.Path)
	require.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"https://s3.test/a.png?sig=1", "https://s3.test/a.png?sig=2"}, p.Entries()[0].URLs)
}

func TestPlanSuffixesFilenameCollisions(t *testing.T) {
	p := NewPlan("images/post/")

	a, _ := p.Add("Chart", "https://s3.test/one.png")
	b, _ := p.Add("Chart", "https://s3.test/two.png")
	c, _ := p.Add("Chart", "https://s3.test/three.png")

	assert.Equal(t, "images/post/chart.png", a.Path)
	assert.Equal(t, "images/post/chart-2.png", b.Path)
	assert.Equal(t, "images/post/chart-3.png", c.Path)
}

func TestPlanKeepsQueryAddressedImagesApart(t *testing.T) {
	p := NewPlan("images/post/")

	first, isNew := p.Add("First", "https://charts.example.com/render.php?id=1")
	require.True(t, isNew)
	second, isNew := p.Add("Second", "https://charts.example.com/render.php?id=2")
	require.True(t, isNew)

	assert.Equal(t, 2, p.Len())
	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, []string{"https://charts.example.com/render.php?id=2"}, p.Entries()[1].URLs)
}
