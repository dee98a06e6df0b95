package debugcore

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("0.01", 6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_000), v)

	v, err = ParseUnits("12", 18)
	require.NoError(t, err)
	assert.Equal(t, "12000000000000000000", v.String())

	v, err = ParseUnits("0", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	for _, bad := range []string{"", "0.0000001", "abc", "-1"} {
		_, err := ParseUnits(bad, 6)
		assert.Error(t, err, bad)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0", FormatUnits(nil, 6))
	assert.Equal(t, "0", FormatUnits(big.NewInt(0), 6))
	assert.Equal(t, "0.01", FormatUnits(big.NewInt(10_000), 6))
	assert.Equal(t, "12.34", FormatUnits(big.NewInt(12_340_000), 6))
	assert.Equal(t, "5", FormatUnits(big.NewInt(5_000_000), 6))
	assert.Equal(t, "-0.5", FormatUnits(big.NewInt(-500_000), 6))
	assert.Equal(t, "42", FormatUnits(big.NewInt(42), 0))
}

func TestEncodeTransfer(t *testing.T) {
	to := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	data, err := EncodeTransfer(to, big.NewInt(10_000))
	require.NoError(t, err)
	require.Len(t, data, 4+32+32)
	assert.Equal(t, common.FromHex("0xa9059cbb"), data[:4])
	assert.Equal(t, common.LeftPadBytes(to.Bytes(), 32), data[4:36])
	assert.Equal(t, int64(10_000), new(big.Int).SetBytes(data[36:]).Int64())
}
