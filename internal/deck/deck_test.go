package deck

import (
	"testing"

	"github.com/lox/playnine/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardDeck(t *testing.T) {
	d := NewStandard(randutil.New(42))

	require.Equal(t, 60, d.Size())
	require.Equal(t, 60, d.Remaining())

	counts := map[Rank]int{}
	for !d.IsEmpty() {
		r, ok := d.Draw()
		require.True(t, ok)
		counts[r]++
	}

	assert.Len(t, counts, len(StandardRanks))
	for _, r := range StandardRanks {
		assert.Equal(t, CopiesPerRank, counts[r], "rank %d", r)
	}
}

func TestDeckDrawExhausts(t *testing.T) {
	d := FromCards([]Rank{1, 2, 3})

	top, ok := d.Peek()
	require.True(t, ok)
	assert.Equal(t, Rank(1), top)

	assert.Equal(t, []Rank{1, 2}, d.DrawN(2))
	assert.Equal(t, 1, d.Remaining())

	r, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, Rank(3), r)

	_, ok = d.Draw()
	assert.False(t, ok)
	assert.True(t, d.IsEmpty())
	assert.Empty(t, d.DrawN(4))
}

func TestShuffleIsSeeded(t *testing.T) {
	a := NewStandard(randutil.New(7)).DrawN(60)
	b := NewStandard(randutil.New(7)).DrawN(60)
	c := NewStandard(randutil.New(8)).DrawN(60)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParseRanks(t *testing.T) {
	tests := []struct {
		in      string
		want    []Rank
		wantErr bool
	}{
		{"-5, -3, 0", []Rank{-5, -3, 0}, false},
		{"1 2 3", []Rank{1, 2, 3}, false},
		{"", []Rank{}, false},
		{"1, x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRanks(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandString(t *testing.T) {
	h := Hand{-5, 0, 12}
	assert.Equal(t, "[-5, 0, 12]", h.String())

	c := h.Clone()
	c[0] = 9
	assert.Equal(t, Rank(-5), h[0])
}
