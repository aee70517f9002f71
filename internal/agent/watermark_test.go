package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vonhatnam1212/norugz-agent/internal/storage"
	"go.uber.org/zap"
)

func loadTestWatermark(t *testing.T, store storage.Storage) *Watermark {
	t.Helper()
	w, err := LoadWatermark(context.Background(), store, "agent-1", zap.NewNop())
	require.NoError(t, err)
	return w
}

func TestWatermarkUnsetSeesNothing(t *testing.T) {
	w := loadTestWatermark(t, storage.NewMemoryStorage())

	assert.Equal(t, "", w.Value())
	assert.False(t, w.Seen("1"))
	assert.False(t, w.Seen("99999999999999999999999999"))
}

func TestWatermarkMonotonicAdvance(t *testing.T) {
	w := loadTestWatermark(t, storage.NewMemoryStorage())

	w.Advance("100")
	assert.Equal(t, "100", w.Value())

	// Lower ids never regress the watermark
	w.Advance("50")
	assert.Equal(t, "100", w.Value())

	w.Advance("101")
	assert.Equal(t, "101", w.Value())

	assert.True(t, w.Seen("101"))
	assert.True(t, w.Seen("100"))
	assert.False(t, w.Seen("102"))
}

func TestWatermarkBigIntegerComparison(t *testing.T) {
	w := loadTestWatermark(t, storage.NewMemoryStorage())

	// Beyond int64 range; string comparison would order these wrong too
	w.Advance("99999999999999999999999999999")
	w.Advance("100000000000000000000000000000")
	assert.Equal(t, "100000000000000000000000000000", w.Value())
	assert.True(t, w.Seen("99999999999999999999999999999"))
	assert.False(t, w.Seen("100000000000000000000000000001"))
}

func TestWatermarkFlushAndReload(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	w := loadTestWatermark(t, store)
	w.Advance("123456789012345678901234567890")
	require.NoError(t, w.Flush(ctx))

	reloaded := loadTestWatermark(t, store)
	assert.Equal(t, "123456789012345678901234567890", reloaded.Value())
	assert.True(t, reloaded.Seen("123456789012345678901234567890"))
}

func TestWatermarkIgnoresNonNumericIDs(t *testing.T) {
	w := loadTestWatermark(t, storage.NewMemoryStorage())

	w.Advance("100")
	w.Advance("not-a-number")
	assert.Equal(t, "100", w.Value())
}

func TestCompareTweetIDs(t *testing.T) {
	assert.Negative(t, compareTweetIDs("9", "10"))
	assert.Positive(t, compareTweetIDs("10", "9"))
	assert.Zero(t, compareTweetIDs("7", "7"))
	// Numeric compare, not lexicographic
	assert.Negative(t, compareTweetIDs("999", "1000"))
}
