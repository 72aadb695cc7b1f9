package scan2font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig is a small grid rendered at low dpi to keep tests fast.
func testConfig() TemplateConfig {
	return TemplateConfig{
		PageSize:    PageLetter,
		CellsPerRow: 4,
		RowsPerPage: 4,
		DPI:         50,
		Guides:      DefaultCellGuides(),
	}
}

func TestTemplateCacheHitReturnsSameImage(t *testing.T) {
	cache := NewTemplateCache(4)
	a, err := cache.Get(testConfig(), 0, CharsetRequired)
	require.NoError(t, err)
	b, err := cache.Get(testConfig(), 0, CharsetRequired)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, cache.Len())
}

func TestTemplateCacheDistinguishesKeys(t *testing.T) {
	cache := NewTemplateCache(4)
	a, err := cache.Get(testConfig(), 0, CharsetRequired)
	require.NoError(t, err)
	b, err := cache.Get(testConfig(), 1, CharsetRequired)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, cache.Len())
}

func TestTemplateCacheEvictsBeyondCapacity(t *testing.T) {
	cache := NewTemplateCache(2)
	for page := 0; page < 3; page++ {
		_, err := cache.Get(testConfig(), page, CharsetRequired)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Len())
}

func TestTemplateCacheClear(t *testing.T) {
	cache := NewTemplateCache(4)
	_, err := cache.Get(testConfig(), 0, CharsetRequired)
	require.NoError(t, err)
	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestTemplateCacheRejectsBadConfig(t *testing.T) {
	cache := NewTemplateCache(4)
	bad := testConfig()
	bad.DPI = 0
	_, err := cache.Get(bad, 0, CharsetRequired)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}
