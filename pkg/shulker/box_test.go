package shulker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderlink/enderlink/pkg/errors"
)

func TestSortByPriority(t *testing.T) {
	boxes := []Box{
		{Priority: 10, Name: "optifine"},
		{Priority: 0, Name: "global"},
		{Priority: 10, Name: "aether"},
		{Priority: -5, Name: "zzz-base"},
	}

	require.NoError(t, SortByPriority(boxes))

	var order []string
	for _, box := range boxes {
		order = append(order, box.Name)
	}
	assert.Equal(t, []string{"zzz-base", "global", "aether", "optifine"}, order)
}

func TestSortByPriorityDeterministic(t *testing.T) {
	build := func() []Box {
		return []Box{
			{Priority: 1, Name: "b"},
			{Priority: 1, Name: "a"},
			{Priority: 0, Name: "c"},
		}
	}

	first := build()
	second := build()
	require.NoError(t, SortByPriority(first))
	require.NoError(t, SortByPriority(second))
	assert.Equal(t, first, second)
}

func TestSortByPriorityDuplicateKey(t *testing.T) {
	boxes := []Box{
		{Priority: 1, Name: "global", Root: "/a/global"},
		{Priority: 1, Name: "global", Root: "/b/global"},
	}

	err := SortByPriority(boxes)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBoxOrdering))
}

func TestKeyLess(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Key
		aLess bool
	}{
		{"priority wins", Key{0, "z"}, Key{1, "a"}, true},
		{"name breaks ties", Key{1, "a"}, Key{1, "b"}, true},
		{"equal keys", Key{1, "a"}, Key{1, "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.aLess, tt.a.Less(tt.b))
			if tt.aLess {
				assert.False(t, tt.b.Less(tt.a))
			}
		})
	}
}
