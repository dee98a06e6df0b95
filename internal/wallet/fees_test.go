package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestFees(t *testing.T) {
	b := newFakeBackend(8453)

	f, err := suggestFees(context.Background(), b, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "1.00", FmtGwei(f.BaseFee))
	assert.Equal(t, "0.10", FmtGwei(f.Tip))
	assert.Equal(t, "2.10", FmtGwei(f.FeeCap))

	f, err = suggestFees(context.Background(), b, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "1.00", FmtGwei(f.Tip), "tip is raised to the floor")
	assert.Equal(t, "4.00", FmtGwei(f.FeeCap))

	b.baseFee = nil
	_, err = suggestFees(context.Background(), b, 2, 0)
	assert.Error(t, err)
}

func TestFmtAndMask(t *testing.T) {
	assert.Equal(t, "0", FmtGwei(nil))
	assert.Equal(t, "0.05", FmtGwei(big.NewInt(50_000_000)))
	assert.Equal(t, "***", MaskHex("0x1234"))
	assert.Equal(t, "0xb71c…f291", MaskHex("0x"+testKeyHex))
}

func TestWithRetry(t *testing.T) {
	t.Run("retries rate limits", func(t *testing.T) {
		calls := 0
		v, err := withRetry(context.Background(), func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("429 Too Many Requests")
			}
			return 9, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 9, v)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors return at once", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), func(context.Context) (int, error) {
			calls++
			return 0, errors.New("execution reverted")
		})
		assert.EqualError(t, err, "execution reverted")
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancels backoff", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := withRetry(ctx, func(context.Context) (int, error) {
			return 0, errors.New("-32005 limit exceeded")
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
