package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzySearchFilter(t *testing.T) {
	titles := []string{"One Piece", "Sousou no Frieren", "Frieren Recap", "Dandadan"}
	f := NewFuzzySearch()

	assert.Equal(t, []int{0, 1, 2, 3}, f.Filter(titles), "inactive filter keeps everything")

	f.Activate()
	assert.Equal(t, []int{0, 1, 2, 3}, f.Filter(titles), "empty query keeps everything")

	f.SetQuery("frieren")
	assert.ElementsMatch(t, []int{1, 2}, f.Filter(titles))

	f.Lock()
	assert.True(t, f.IsLocked())
	assert.False(t, f.Editing())
	assert.ElementsMatch(t, []int{1, 2}, f.Filter(titles), "locked filter still applies")

	f.Deactivate()
	assert.Empty(t, f.Query())
	assert.Len(t, f.Filter(titles), 4)
}
