package httpinterface

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

// Amounts are always rendered both in wei and in ether.
type amount struct {
	Wei   string `json:"wei"`
	Ether string `json:"ether"`
}

func newAmount(wei *big.Int) amount {
	if wei == nil {
		wei = big.NewInt(0)
	}
	return amount{wei.String(), ethunit.FormatEther(wei)}
}

type txRequest struct {
	From string `json:"from"`
	// Amount is in ether.
	Amount   string `json:"amount"`
	Data     string `json:"data"`
	GasLimit uint64 `json:"gas_limit"`
}

type deployRequest struct {
	Tags []string `json:"tags"`
}

type updatePriceRequest struct {
	From   string `json:"from"`
	Answer string `json:"answer"`
}

type rejectPaymentsRequest struct {
	Reject bool `json:"reject"`
}

type addWebhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type nodeInfo struct {
	Network            string `json:"network"`
	ChainID            uint64 `json:"chain_id"`
	IsDevelopmentChain bool   `json:"is_development_chain"`
	BlockNumber        uint64 `json:"block_number"`
	GasPrice           string `json:"gas_price"`
	BlockGasLimit      uint64 `json:"block_gas_limit"`
}

func newNodeInfo(info *application.NodeInfo) nodeInfo {
	return nodeInfo{
		Network:            info.Network,
		ChainID:            info.ChainID,
		IsDevelopmentChain: info.IsDevelopmentChain,
		BlockNumber:        info.BlockNumber,
		GasPrice:           info.GasPrice.String(),
		BlockGasLimit:      info.BlockGasLimit,
	}
}

type account struct {
	Address         string `json:"address"`
	Balance         amount `json:"balance"`
	Nonce           uint64 `json:"nonce"`
	Contract        string `json:"contract,omitempty"`
	RejectsPayments bool   `json:"rejects_payments,omitempty"`
}

func newAccounts(list []application.AccountInfo) []account {
	accounts := make([]account, 0, len(list))
	for _, a := range list {
		accounts = append(accounts, account{
			Address:         a.Address.Hex(),
			Balance:         newAmount(a.Balance),
			Nonce:           a.Nonce,
			Contract:        string(a.Contract),
			RejectsPayments: a.RejectsPayments,
		})
	}
	return accounts
}

type txLog struct {
	Address string            `json:"address"`
	Event   string            `json:"event"`
	Data    map[string]string `json:"data"`
}

type receipt struct {
	TxHash          string  `json:"tx_hash"`
	BlockNumber     uint64  `json:"block_number"`
	From            string  `json:"from"`
	To              string  `json:"to,omitempty"`
	ContractAddress string  `json:"contract_address,omitempty"`
	Nonce           uint64  `json:"nonce"`
	Value           amount  `json:"value"`
	Method          string  `json:"method,omitempty"`
	Data            string  `json:"data,omitempty"`
	GasLimit        uint64  `json:"gas_limit"`
	GasUsed         uint64  `json:"gas_used"`
	GasPrice        string  `json:"gas_price"`
	Fee             amount  `json:"fee"`
	Status          uint64  `json:"status"`
	Logs            []txLog `json:"logs"`
	Timestamp       int64   `json:"timestamp"`
}

func newReceipt(r domain.Receipt) receipt {
	logs := make([]txLog, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, txLog{l.Address.Hex(), l.Event, l.Data})
	}
	res := receipt{
		TxHash:      r.TxHash.Hex(),
		BlockNumber: r.BlockNumber,
		From:        r.From.Hex(),
		Nonce:       r.Nonce,
		Value:       newAmount(r.Value),
		Method:      r.Method,
		GasLimit:    r.GasLimit,
		GasUsed:     r.GasUsed,
		Fee:         newAmount(r.Fee()),
		Status:      r.Status,
		Logs:        logs,
		Timestamp:   r.Timestamp,
	}
	if r.GasPrice != nil {
		res.GasPrice = r.GasPrice.String()
	}
	if r.IsContractCreation() {
		res.ContractAddress = r.ContractAddress.Hex()
	} else {
		res.To = r.To.Hex()
	}
	if len(r.Data) > 0 {
		res.Data = hexutil.Encode(r.Data)
	}
	return res
}

func newReceipts(list []domain.Receipt) []receipt {
	receipts := make([]receipt, 0, len(list))
	for _, r := range list {
		receipts = append(receipts, newReceipt(r))
	}
	return receipts
}

type deployment struct {
	Name     string   `json:"name"`
	Contract string   `json:"contract"`
	Address  string   `json:"address"`
	Deployer string   `json:"deployer"`
	Args     []string `json:"args"`
	TxHash   string   `json:"tx_hash"`
	Tags     []string `json:"tags"`
	Network  string   `json:"network"`
}

func newDeployment(d domain.Deployment) deployment {
	return deployment{
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

func newDeployments(list []domain.Deployment) []deployment {
	deployments := make([]deployment, 0, len(list))
	for _, d := range list {
		deployments = append(deployments, newDeployment(d))
	}
	return deployments
}

type deployResult struct {
	Deployments []deployment `json:"deployments"`
	Receipts    []receipt    `json:"receipts"`
}

type funder struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
	Amount  amount `json:"amount"`
}

func newFunders(list []application.FunderInfo) []funder {
	funders := make([]funder, 0, len(list))
	for _, f := range list {
		funders = append(funders, funder{f.Index, f.Address.Hex(), newAmount(f.Amount)})
	}
	return funders
}

type fundMeInfo struct {
	Address   string   `json:"address"`
	Owner     string   `json:"owner"`
	PriceFeed string   `json:"price_feed"`
	Balance   amount   `json:"balance"`
	Funders   []funder `json:"funders"`
}

func newFundMeInfo(info *application.FundMeInfo) fundMeInfo {
	return fundMeInfo{
		Address:   info.Address.Hex(),
		Owner:     info.Owner.Hex(),
		PriceFeed: info.PriceFeed.Hex(),
		Balance:   newAmount(info.Balance),
		Funders:   newFunders(info.Funders),
	}
}

type priceInfo struct {
	PriceFeed string `json:"price_feed"`
	RoundID   uint64 `json:"round_id"`
	Answer    string `json:"answer"`
	Decimals  uint8  `json:"decimals"`
	Price     string `json:"price"`
	UpdatedAt int64  `json:"updated_at"`
}

func newPriceInfo(info *application.PriceInfo) priceInfo {
	return priceInfo{
		PriceFeed: info.PriceFeed.Hex(),
		RoundID:   info.RoundID,
		Answer:    info.Answer.String(),
		Decimals:  info.Decimals,
		Price:     ethunit.FormatUnits(info.Answer, int32(info.Decimals)),
		UpdatedAt: info.UpdatedAt,
	}
}
