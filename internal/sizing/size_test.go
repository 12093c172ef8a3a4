package sizing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOverflow = errors.New("overflow")

func TestToUint32(t *testing.T) {
	t.Parallel()

	v, err := ToUint32(42, errOverflow)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	_, err = ToUint32(-1, errOverflow)
	assert.ErrorIs(t, err, errOverflow)

	if math.MaxInt > math.MaxUint32 {
		_, err = ToUint32(math.MaxUint32+1, errOverflow)
		assert.ErrorIs(t, err, errOverflow)
	}
}

func TestAddInt(t *testing.T) {
	t.Parallel()

	sum, ok := AddInt(3, 4)
	assert.True(t, ok)
	assert.Equal(t, 7, sum)

	_, ok = AddInt(math.MaxInt, 1)
	assert.False(t, ok)

	_, ok = AddInt(-1, 1)
	assert.False(t, ok)
}

func TestSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		off, n, size int
		want         bool
	}{
		{"empty at start", 0, 0, 0, true},
		{"exact fit", 2, 3, 5, true},
		{"one past end", 2, 4, 5, false},
		{"offset past end", 6, 0, 5, false},
		{"huge length", 1, math.MaxInt, 5, false},
		{"negative offset", -1, 1, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Span(tt.off, tt.n, tt.size))
		})
	}
}
