package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// AggregatorVersion is the version returned by the mock aggregator.
	AggregatorVersion = 0
	// AggregatorDescription is the description returned by the mock
	// aggregator.
	AggregatorDescription = "v0.8/tests/MockV3Aggregator.sol"

	maxDecimals = 36
)

// Round holds the data of a price round.
type Round struct {
	Answer    *big.Int
	Timestamp int64
	StartedAt int64
}

// RoundData is the answer of a price feed for a given round.
type RoundData struct {
	RoundID         uint64
	Answer          *big.Int
	StartedAt       int64
	UpdatedAt       int64
	AnsweredInRound uint64
}

// Aggregator is a mock price feed whose answer is set by hand, used on
// development chains in place of a real oracle.
type Aggregator struct {
	Address         common.Address
	Decimals        uint8
	LatestAnswer    *big.Int
	LatestTimestamp int64
	LatestRound     uint64
	Rounds          map[uint64]Round
}

// NewAggregator returns a new mock aggregator with the given decimals and
// initial answer recorded as round 1.
func NewAggregator(
	address common.Address, decimals uint8, initialAnswer *big.Int, now int64,
) (*Aggregator, error) {
	if isZeroAddress(address) {
		return nil, ErrNullAddress
	}
	if decimals > maxDecimals {
		return nil, ErrInvalidDecimals
	}
	if initialAnswer == nil {
		return nil, ErrInvalidAmount
	}

	a := &Aggregator{
		Address:  address,
		Decimals: decimals,
		Rounds:   make(map[uint64]Round),
	}
	a.UpdateAnswer(initialAnswer, now)
	return a, nil
}

// UpdateAnswer records a new answer in a new round.
func (a *Aggregator) UpdateAnswer(answer *big.Int, now int64) {
	a.LatestAnswer = new(big.Int).Set(answer)
	a.LatestTimestamp = now
	a.LatestRound++
	if a.Rounds == nil {
		a.Rounds = make(map[uint64]Round)
	}
	a.Rounds[a.LatestRound] = Round{
		Answer:    new(big.Int).Set(answer),
		Timestamp: now,
		StartedAt: now,
	}
}

// UpdateRoundData overwrites the given round and makes it the latest one.
func (a *Aggregator) UpdateRoundData(
	roundID uint64, answer *big.Int, timestamp, startedAt int64,
) {
	a.LatestRound = roundID
	a.LatestAnswer = new(big.Int).Set(answer)
	a.LatestTimestamp = timestamp
	if a.Rounds == nil {
		a.Rounds = make(map[uint64]Round)
	}
	a.Rounds[roundID] = Round{
		Answer:    new(big.Int).Set(answer),
		Timestamp: timestamp,
		StartedAt: startedAt,
	}
}

// LatestRoundData returns the data of the latest round.
func (a *Aggregator) LatestRoundData() RoundData {
	round := a.Rounds[a.LatestRound]
	return RoundData{
		RoundID:         a.LatestRound,
		Answer:          copyInt(round.Answer),
		StartedAt:       round.StartedAt,
		UpdatedAt:       round.Timestamp,
		AnsweredInRound: a.LatestRound,
	}
}

// GetRoundData returns the data of the given round.
func (a *Aggregator) GetRoundData(roundID uint64) (RoundData, error) {
	round, ok := a.Rounds[roundID]
	if !ok {
		return RoundData{}, ErrRoundNotFound
	}
	return RoundData{
		RoundID:         roundID,
		Answer:          copyInt(round.Answer),
		StartedAt:       round.StartedAt,
		UpdatedAt:       round.Timestamp,
		AnsweredInRound: roundID,
	}, nil
}

func copyInt(i *big.Int) *big.Int {
	if i == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(i)
}
