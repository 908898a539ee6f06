package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

func handles(instance valueobjects.InstanceID, n int) []valueobjects.LayerHandle {
	out := make([]valueobjects.LayerHandle, n)
	for i := range out {
		out[i] = valueobjects.NewLayerHandle(instance, i)
	}
	return out
}

func TestNewLayerOrder(t *testing.T) {
	l := handles(valueobjects.NextInstanceID(), 3)

	tests := []struct {
		name    string
		ranks   map[valueobjects.LayerHandle]int
		wantErr bool
	}{
		{name: "identity", ranks: map[valueobjects.LayerHandle]int{l[0]: 0, l[1]: 1, l[2]: 2}},
		{name: "reversed", ranks: map[valueobjects.LayerHandle]int{l[0]: 2, l[1]: 1, l[2]: 0}},
		{name: "empty", ranks: map[valueobjects.LayerHandle]int{}},
		{name: "duplicate rank", ranks: map[valueobjects.LayerHandle]int{l[0]: 0, l[1]: 0, l[2]: 1}, wantErr: true},
		{name: "rank out of range", ranks: map[valueobjects.LayerHandle]int{l[0]: 0, l[1]: 3, l[2]: 1}, wantErr: true},
		{name: "negative rank", ranks: map[valueobjects.LayerHandle]int{l[0]: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewLayerOrder(tt.ranks)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.ranks), o.Len())
			for h, r := range tt.ranks {
				got, ok := o.Rank(h)
				assert.True(t, ok)
				assert.Equal(t, r, got)
				back, ok := o.LayerAt(r)
				assert.True(t, ok)
				assert.Equal(t, h, back)
			}
		})
	}
}

func TestLayerOrder_RanksIsACopy(t *testing.T) {
	l := handles(valueobjects.NextInstanceID(), 2)
	o, err := NewLayerOrder(map[valueobjects.LayerHandle]int{l[0]: 1, l[1]: 0})
	require.NoError(t, err)

	ranks := o.Ranks()
	ranks[l[0]] = 0
	r, _ := o.Rank(l[0])
	assert.Equal(t, 1, r)
	assert.Equal(t, []valueobjects.LayerHandle{l[1], l[0]}, o.Layers())
	_, ok := o.LayerAt(2)
	assert.False(t, ok)
}

func TestRekey(t *testing.T) {
	from := handles(valueobjects.NextInstanceID(), 3)
	to := handles(valueobjects.NextInstanceID(), 3)

	o, err := NewLayerOrder(map[valueobjects.LayerHandle]int{from[0]: 2, from[1]: 0, from[2]: 1})
	require.NoError(t, err)
	v := NewVisibility(map[valueobjects.LayerHandle]bool{from[0]: true, from[1]: false, from[2]: true})

	ro, err := o.Rekey(from, to)
	require.NoError(t, err)
	rv, err := v.Rekey(from, to)
	require.NoError(t, err)

	assert.True(t, ro.Covers(to))
	assert.True(t, rv.Covers(to))
	assert.False(t, ro.Covers(from))
	r, _ := ro.Rank(to[0])
	assert.Equal(t, 2, r)
	vis, ok := rv.IsVisible(to[1])
	assert.True(t, ok)
	assert.False(t, vis)

	_, err = o.Rekey(from, to[:2])
	assert.True(t, pkgerrors.IsValidation(err))
	_, err = v.Rekey(to, from)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestVisualizationState(t *testing.T) {
	l := handles(valueobjects.NextInstanceID(), 3)
	s := NewVisualizationState(l)

	for i, h := range l {
		assert.Equal(t, i, s.VisualizationOrder(h))
		assert.True(t, s.IsLayerVisible(h))
	}

	require.NoError(t, s.SetVisible(l[1], false))
	assert.False(t, s.IsLayerVisible(l[1]))
	assert.Equal(t, 1, s.VisualizationOrder(l[1]), "hiding keeps the rank")

	require.NoError(t, s.MoveToRank(l[2], 0))
	assert.Equal(t, []valueobjects.LayerHandle{l[2], l[0], l[1]}, s.Order().Layers())

	require.NoError(t, s.MoveToRank(l[2], 2))
	assert.Equal(t, []valueobjects.LayerHandle{l[0], l[1], l[2]}, s.Order().Layers())

	assert.True(t, pkgerrors.IsValidation(s.MoveToRank(l[0], 3)))
	stranger := valueobjects.NewLayerHandle(valueobjects.NextInstanceID(), 0)
	assert.True(t, pkgerrors.IsNotFound(s.SetVisible(stranger, true)))
	assert.Equal(t, -1, s.VisualizationOrder(stranger))
	assert.False(t, s.IsLayerVisible(stranger))
}

func TestVisualizationState_Sync(t *testing.T) {
	inst := valueobjects.NextInstanceID()
	l := handles(inst, 3)
	s := NewVisualizationState(l[:2])
	require.NoError(t, s.MoveToRank(l[1], 0))
	require.NoError(t, s.SetVisible(l[0], false))

	s.Sync(l)
	assert.Equal(t, []valueobjects.LayerHandle{l[1], l[0], l[2]}, s.Order().Layers())
	assert.True(t, s.IsLayerVisible(l[2]))
	assert.False(t, s.IsLayerVisible(l[0]))

	// the layer behind l[0] is removed and l[1], l[2] shift down one index
	s.Remap(map[valueobjects.LayerHandle]valueobjects.LayerHandle{l[1]: l[0], l[2]: l[1]})
	s.Sync(l[:2])
	assert.Equal(t, []valueobjects.LayerHandle{l[0], l[1]}, s.Order().Layers())
	assert.True(t, s.IsLayerVisible(l[0]))
	assert.True(t, s.IsLayerVisible(l[1]))
	assert.Equal(t, 2, s.Visibility().Len())
}

func TestVisualizationState_Adopt(t *testing.T) {
	l := handles(valueobjects.NextInstanceID(), 2)
	s := NewVisualizationState(l)

	other := handles(valueobjects.NextInstanceID(), 2)
	o, err := NewLayerOrder(map[valueobjects.LayerHandle]int{other[0]: 1, other[1]: 0})
	require.NoError(t, err)
	v := NewVisibility(map[valueobjects.LayerHandle]bool{other[0]: false, other[1]: true})

	require.NoError(t, s.Adopt(o, v))
	assert.Equal(t, 1, s.VisualizationOrder(other[0]))
	assert.False(t, s.IsLayerVisible(other[0]))
	assert.Equal(t, -1, s.VisualizationOrder(l[0]))

	mismatched := NewVisibility(map[valueobjects.LayerHandle]bool{l[0]: true, l[1]: true})
	assert.True(t, pkgerrors.IsValidation(s.Adopt(o, mismatched)))
}
