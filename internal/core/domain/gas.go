package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/params"
)

// GasMeter keeps track of the gas consumed by a transaction. Storage slots are
// priced following EIP-2929: the first read of a slot is cold, the following
// ones are warm. Refunds are not modeled.
//
// A nil *GasMeter is valid and meters nothing, this is handy for read-only
// calls and tests.
type GasMeter struct {
	limit    uint64
	used     uint64
	accessed map[string]struct{}
}

func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{
		limit:    limit,
		accessed: make(map[string]struct{}),
	}
}

func (g *GasMeter) GasUsed() uint64 {
	if g == nil {
		return 0
	}
	return g.used
}

func (g *GasMeter) GasLimit() uint64 {
	if g == nil {
		return 0
	}
	return g.limit
}

// ConsumeGas adds the given amount to the used gas and fails if the limit is
// exceeded.
func (g *GasMeter) ConsumeGas(amount uint64, descriptor string) error {
	if g == nil {
		return nil
	}
	if g.used+amount < g.used || g.used+amount > g.limit {
		g.used = g.limit
		return fmt.Errorf("%w: %s", ErrOutOfGas, descriptor)
	}
	g.used += amount
	return nil
}

// SLoad charges the read of a storage slot.
func (g *GasMeter) SLoad(slot string) error {
	if g == nil {
		return nil
	}
	return g.ConsumeGas(g.accessCost(slot), "SLOAD "+slot)
}

// SStore charges the write of a storage slot. wasZero and isZero tell if the
// slot held a zero value before and after the write.
func (g *GasMeter) SStore(slot string, wasZero, isZero bool) error {
	if g == nil {
		return nil
	}
	cost := uint64(0)
	if _, warm := g.accessed[slot]; !warm {
		cost += params.ColdSloadCostEIP2929
		g.accessed[slot] = struct{}{}
	}
	switch {
	case wasZero && !isZero:
		cost += params.SstoreSetGasEIP2200
	case wasZero && isZero:
		cost += params.WarmStorageReadCostEIP2929
	default:
		cost += params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929
	}
	return g.ConsumeGas(cost, "SSTORE "+slot)
}

// MLoad charges a read from memory.
func (g *GasMeter) MLoad() error {
	return g.ConsumeGas(params.MemoryGas, "MLOAD")
}

// Log charges the emission of an event with the given number of topics and
// bytes of data.
func (g *GasMeter) Log(topics, dataLen int) error {
	cost := params.LogGas +
		uint64(topics)*params.LogTopicGas +
		uint64(dataLen)*params.LogDataGas
	return g.ConsumeGas(cost, "LOG")
}

func (g *GasMeter) accessCost(slot string) uint64 {
	if _, ok := g.accessed[slot]; ok {
		return params.WarmStorageReadCostEIP2929
	}
	g.accessed[slot] = struct{}{}
	return params.ColdSloadCostEIP2929
}

// IntrinsicGas returns the gas charged to any transaction before its
// execution, depending on the payload and on whether it creates a contract.
func IntrinsicGas(data []byte, isContractCreation bool) uint64 {
	gas := params.TxGas
	if isContractCreation {
		gas = params.TxGasContractCreation
	}
	for _, b := range data {
		if b == 0 {
			gas += params.TxDataZeroGas
			continue
		}
		gas += params.TxDataNonZeroGasEIP2028
	}
	return gas
}
