package scan2font

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharactersRequired(t *testing.T) {
	chars := Characters(CharsetRequired)
	assert.Len(t, chars, 94)
	assert.Equal(t, '!', chars[0])
	assert.Equal(t, '~', chars[len(chars)-1])
}

func TestCharactersAllExtendsRequired(t *testing.T) {
	required := Characters(CharsetRequired)
	all := Characters(CharsetAll)
	assert.Greater(t, len(all), len(required))
	assert.Equal(t, required, all[:len(required)])
	assert.NotContains(t, all, '×')
	assert.NotContains(t, all, '÷')
	assert.Contains(t, all, 'À')
	assert.Contains(t, all, 'ÿ')
}

func TestPageCharactersSlicing(t *testing.T) {
	cfg := DefaultConfig() // 80 cells per page
	page0 := PageCharacters(CharsetRequired, cfg, 0)
	page1 := PageCharacters(CharsetRequired, cfg, 1)

	assert.Len(t, page0, 80)
	assert.Len(t, page1, 14) // 94 - 80
	assert.Equal(t, Characters(CharsetRequired)[80], page1[0])
	assert.Empty(t, PageCharacters(CharsetRequired, cfg, 2))
	assert.Empty(t, PageCharacters(CharsetRequired, cfg, -1))
}

func TestPageCount(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, PageCount(CharsetRequired, cfg))

	small := cfg
	small.CellsPerRow = 2
	small.RowsPerPage = 2
	assert.Equal(t, 24, PageCount(CharsetRequired, small))
}
