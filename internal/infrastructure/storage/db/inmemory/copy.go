package inmemory

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

func copyInt(i *big.Int) *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set(i)
}

func copyFundMe(f domain.FundMe) domain.FundMe {
	amounts := make(map[common.Address]*big.Int, len(f.AddressToAmountFunded))
	for addr, amount := range f.AddressToAmountFunded {
		amounts[addr] = copyInt(amount)
	}
	funders := make([]common.Address, len(f.Funders))
	copy(funders, f.Funders)

	f.AddressToAmountFunded = amounts
	f.Funders = funders
	return f
}

func copyAggregator(a domain.Aggregator) domain.Aggregator {
	rounds := make(map[uint64]domain.Round, len(a.Rounds))
	for id, round := range a.Rounds {
		round.Answer = copyInt(round.Answer)
		rounds[id] = round
	}

	a.LatestAnswer = copyInt(a.LatestAnswer)
	a.Rounds = rounds
	return a
}

func copyAccount(a domain.Account) domain.Account {
	a.Balance = copyInt(a.Balance)
	return a
}

func copyReceipt(r domain.Receipt) domain.Receipt {
	r.Value = copyInt(r.Value)
	r.GasPrice = copyInt(r.GasPrice)
	r.Data = append([]byte(nil), r.Data...)
	logs := make([]domain.Log, 0, len(r.Logs))
	for _, l := range r.Logs {
		data := make(map[string]string, len(l.Data))
		for k, v := range l.Data {
			data[k] = v
		}
		l.Data = data
		logs = append(logs, l)
	}
	r.Logs = logs
	return r
}

func copyDeployment(d domain.Deployment) domain.Deployment {
	d.Args = append([]string(nil), d.Args...)
	d.Tags = append([]string(nil), d.Tags...)
	return d
}
