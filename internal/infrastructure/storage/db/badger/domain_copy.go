package dbbadger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

// Storage representations of the domain models. Addresses, hashes and wei
// amounts are stored as strings.

type FundMe struct {
	Address               string `badgerhold:"key"`
	Owner                 string
	PriceFeed             string
	AddressToAmountFunded map[string]string
	Funders               []string
}

type Round struct {
	Answer    string
	Timestamp int64
	StartedAt int64
}

type Aggregator struct {
	Address         string `badgerhold:"key"`
	Decimals        uint8
	LatestAnswer    string
	LatestTimestamp int64
	LatestRound     uint64
	Rounds          map[uint64]Round
}

type Account struct {
	Address         string `badgerhold:"key"`
	Balance         string
	Nonce           uint64
	Contract        string
	RejectsPayments bool
}

type Log struct {
	Address string
	Event   string
	Data    map[string]string
}

type Receipt struct {
	TxHash          string `badgerhold:"key"`
	BlockNumber     uint64 `badgerholdIndex:"BlockNumber"`
	From            string
	To              string
	ContractAddress string
	Nonce           uint64
	Value           string
	Method          string
	Data            []byte
	GasLimit        uint64
	GasUsed         uint64
	GasPrice        string
	Status          uint64
	Logs            []Log
	Timestamp       int64
}

type Deployment struct {
	Name     string `badgerhold:"key"`
	Contract string
	Address  string
	Deployer string
	Args     []string
	TxHash   string
	Tags     []string
	Network  string
}

func intToString(i *big.Int) string {
	if i == nil {
		return "0"
	}
	return i.String()
}

func stringToInt(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	return i, nil
}

func fromDomainFundMe(f domain.FundMe) *FundMe {
	amounts := make(map[string]string, len(f.AddressToAmountFunded))
	for addr, amount := range f.AddressToAmountFunded {
		amounts[addr.Hex()] = intToString(amount)
	}
	funders := make([]string, 0, len(f.Funders))
	for _, funder := range f.Funders {
		funders = append(funders, funder.Hex())
	}

	return &FundMe{
		Address:               f.Address.Hex(),
		Owner:                 f.Owner.Hex(),
		PriceFeed:             f.PriceFeed.Hex(),
		AddressToAmountFunded: amounts,
		Funders:               funders,
	}
}

func (f FundMe) toDomain() (*domain.FundMe, error) {
	amounts := make(map[common.Address]*big.Int, len(f.AddressToAmountFunded))
	for addr, amountStr := range f.AddressToAmountFunded {
		amount, err := stringToInt(amountStr)
		if err != nil {
			return nil, err
		}
		amounts[common.HexToAddress(addr)] = amount
	}
	funders := make([]common.Address, 0, len(f.Funders))
	for _, funder := range f.Funders {
		funders = append(funders, common.HexToAddress(funder))
	}

	return &domain.FundMe{
		Address:               common.HexToAddress(f.Address),
		Owner:                 common.HexToAddress(f.Owner),
		PriceFeed:             common.HexToAddress(f.PriceFeed),
		AddressToAmountFunded: amounts,
		Funders:               funders,
	}, nil
}

func fromDomainAggregator(a domain.Aggregator) *Aggregator {
	rounds := make(map[uint64]Round, len(a.Rounds))
	for id, r := range a.Rounds {
		rounds[id] = Round{
			Answer:    intToString(r.Answer),
			Timestamp: r.Timestamp,
			StartedAt: r.StartedAt,
		}
	}

	return &Aggregator{
		Address:         a.Address.Hex(),
		Decimals:        a.Decimals,
		LatestAnswer:    intToString(a.LatestAnswer),
		LatestTimestamp: a.LatestTimestamp,
		LatestRound:     a.LatestRound,
		Rounds:          rounds,
	}
}

func (a Aggregator) toDomain() (*domain.Aggregator, error) {
	latestAnswer, err := stringToInt(a.LatestAnswer)
	if err != nil {
		return nil, err
	}
	rounds := make(map[uint64]domain.Round, len(a.Rounds))
	for id, r := range a.Rounds {
		answer, err := stringToInt(r.Answer)
		if err != nil {
			return nil, err
		}
		rounds[id] = domain.Round{
			Answer:    answer,
			Timestamp: r.Timestamp,
			StartedAt: r.StartedAt,
		}
	}

	return &domain.Aggregator{
		Address:         common.HexToAddress(a.Address),
		Decimals:        a.Decimals,
		LatestAnswer:    latestAnswer,
		LatestTimestamp: a.LatestTimestamp,
		LatestRound:     a.LatestRound,
		Rounds:          rounds,
	}, nil
}

func fromDomainAccount(a domain.Account) *Account {
	return &Account{
		Address:         a.Address.Hex(),
		Balance:         intToString(a.Balance),
		Nonce:           a.Nonce,
		Contract:        string(a.Contract),
		RejectsPayments: a.RejectsPayments,
	}
}

func (a Account) toDomain() (*domain.Account, error) {
	balance, err := stringToInt(a.Balance)
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		Address:         common.HexToAddress(a.Address),
		Balance:         balance,
		Nonce:           a.Nonce,
		Contract:        domain.ContractKind(a.Contract),
		RejectsPayments: a.RejectsPayments,
	}, nil
}

func fromDomainReceipt(r domain.Receipt) *Receipt {
	logs := make([]Log, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, Log{
			Address: l.Address.Hex(),
			Event:   l.Event,
			Data:    l.Data,
		})
	}

	return &Receipt{
		TxHash:          r.TxHash.Hex(),
		BlockNumber:     r.BlockNumber,
		From:            r.From.Hex(),
		To:              r.To.Hex(),
		ContractAddress: r.ContractAddress.Hex(),
		Nonce:           r.Nonce,
		Value:           intToString(r.Value),
		Method:          r.Method,
		Data:            r.Data,
		GasLimit:        r.GasLimit,
		GasUsed:         r.GasUsed,
		GasPrice:        intToString(r.GasPrice),
		Status:          r.Status,
		Logs:            logs,
		Timestamp:       r.Timestamp,
	}
}

func (r Receipt) toDomain() (*domain.Receipt, error) {
	value, err := stringToInt(r.Value)
	if err != nil {
		return nil, err
	}
	gasPrice, err := stringToInt(r.GasPrice)
	if err != nil {
		return nil, err
	}
	logs := make([]domain.Log, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, domain.Log{
			Address: common.HexToAddress(l.Address),
			Event:   l.Event,
			Data:    l.Data,
		})
	}

	return &domain.Receipt{
		TxHash:          common.HexToHash(r.TxHash),
		BlockNumber:     r.BlockNumber,
		From:            common.HexToAddress(r.From),
		To:              common.HexToAddress(r.To),
		ContractAddress: common.HexToAddress(r.ContractAddress),
		Nonce:           r.Nonce,
		Value:           value,
		Method:          r.Method,
		Data:            r.Data,
		GasLimit:        r.GasLimit,
		GasUsed:         r.GasUsed,
		GasPrice:        gasPrice,
		Status:          r.Status,
		Logs:            logs,
		Timestamp:       r.Timestamp,
	}, nil
}

func fromDomainDeployment(d domain.Deployment) *Deployment {
	return &Deployment{
		Name:     d.Name,
		Contract: string(d.Contract),
		Address:  d.Address.Hex(),
		Deployer: d.Deployer.Hex(),
		Args:     d.Args,
		TxHash:   d.TxHash.Hex(),
		Tags:     d.Tags,
		Network:  d.Network,
	}
}

func (d Deployment) toDomain() *domain.Deployment {
	return &domain.Deployment{
		Name:     d.Name,
		Contract: domain.ContractKind(d.Contract),
		Address:  common.HexToAddress(d.Address),
		Deployer: common.HexToAddress(d.Deployer),
		Args:     d.Args,
		TxHash:   common.HexToHash(d.TxHash),
		Tags:     d.Tags,
		Network:  d.Network,
	}
}
