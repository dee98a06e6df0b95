package wallet

import (
	"context"
	"errors"
	"math/big"
)

// Fees are the EIP-1559 caps used for one transaction.
type Fees struct {
	BaseFee *big.Int
	Tip     *big.Int
	FeeCap  *big.Int
}

// NetworkSnapshot is a point-in-time view of the active chain's fee market.
type NetworkSnapshot struct {
	ChainID uint64
	Head    uint64
	BaseFee *big.Int
	Tip     *big.Int
}

// Latest base fee and head number.
func latestBaseFee(ctx context.Context, b Backend) (*big.Int, *big.Int, error) {
	h, err := b.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	if h.BaseFee == nil {
		return nil, h.Number, errors.New("no baseFee (pre-1559?)")
	}
	return new(big.Int).Set(h.BaseFee), new(big.Int).Set(h.Number), nil
}

// suggestFees computes feeCap = baseFee*baseMul + tip, where tip is the node's
// eth_maxPriorityFeePerGas raised to floorGwei.
func suggestFees(ctx context.Context, b Backend, baseMul, floorGwei int64) (Fees, error) {
	baseFee, _, err := latestBaseFee(ctx, b)
	if err != nil {
		return Fees{}, err
	}
	tip, err := b.SuggestGasTipCap(ctx)
	if err != nil || tip == nil {
		tip = big.NewInt(0)
	}
	if floor := gweiToWei(floorGwei); tip.Cmp(floor) < 0 {
		tip = floor
	}
	if baseMul <= 0 {
		baseMul = 2
	}
	return Fees{
		BaseFee: baseFee,
		Tip:     tip,
		FeeCap:  addBig(mulBig(baseFee, baseMul), tip),
	}, nil
}
