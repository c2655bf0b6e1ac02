package application

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

const (
	MethodFund            = "fund"
	MethodWithdraw        = "withdraw"
	MethodCheaperWithdraw = "cheaperWithdraw"
	MethodReceive         = "receive"
	MethodFallback        = "fallback"

	MethodGetOwner                 = "getOwner"
	MethodGetPriceFeed             = "getPriceFeed"
	MethodGetAddressToAmountFunded = "getAddressToAmountFunded"
	MethodGetFunder                = "getFunder"
	MethodGetFunders               = "getFunders"

	MethodUpdateAnswer    = "updateAnswer"
	MethodUpdateRoundData = "updateRoundData"
	MethodLatestRoundData = "latestRoundData"
	MethodGetRoundData    = "getRoundData"
	MethodDecimals        = "decimals"
	MethodVersion         = "version"
	MethodDescription     = "description"

	DeployTagAll    = "all"
	DeployTagMocks  = "mocks"
	DeployTagFundMe = "fundme"

	MockV3AggregatorDeploymentName = "MockV3Aggregator"
	FundMeDeploymentName           = "FundMe"

	EventFunded        = "Funded"
	EventWithdrawn     = "Withdrawn"
	EventAnswerUpdated = "AnswerUpdated"
	EventNewRound      = "NewRound"
)

// NodeConfig holds the parameters of the chain run by the node.
type NodeConfig struct {
	Network        domain.Network
	GasPrice       *big.Int
	BlockGasLimit  uint64
	AccountsSeed   string
	NumOfAccounts  int
	AccountBalance *big.Int
	// StrictFallback makes transactions with unknown call data revert instead
	// of being routed to fund.
	StrictFallback bool
}

// TxRequest is a state changing transaction sent to the node. An empty
// Method with empty Data is a bare value transfer.
type TxRequest struct {
	From     common.Address
	To       common.Address
	Value    *big.Int
	Method   string
	Args     []string
	Data     []byte
	GasLimit uint64
}

// CallRequest is a read-only contract call.
type CallRequest struct {
	From   common.Address
	To     common.Address
	Method string
	Args   []string
}

// CallFunc executes a read-only contract method.
type CallFunc func(req CallRequest) (interface{}, error)

// DeployRequest deploys a contract of the given kind with the given
// constructor arguments.
type DeployRequest struct {
	From     common.Address
	Contract domain.ContractKind
	Args     []string
}

// AccountInfo ...
type AccountInfo struct {
	Address         common.Address
	Balance         *big.Int
	Nonce           uint64
	Contract        domain.ContractKind
	RejectsPayments bool
}

// NodeInfo ...
type NodeInfo struct {
	Network            string
	ChainID            uint64
	IsDevelopmentChain bool
	BlockNumber        uint64
	GasPrice           *big.Int
	BlockGasLimit      uint64
}

// FundMeInfo is a summary of the state of the deployed FundMe.
type FundMeInfo struct {
	Address   common.Address
	Owner     common.Address
	PriceFeed common.Address
	Balance   *big.Int
	Funders   []FunderInfo
}

// FunderInfo ...
type FunderInfo struct {
	Index   int
	Address common.Address
	Amount  *big.Int
}

// PriceInfo is the latest answer of a price feed.
type PriceInfo struct {
	PriceFeed common.Address
	RoundID   uint64
	Answer    *big.Int
	Decimals  uint8
	UpdatedAt int64
}

// Price returns the answer normalized to 18 decimals.
func (p PriceInfo) Price() *big.Int {
	return domain.GetPrice(p.Answer, p.Decimals)
}

// DeployResult ...
type DeployResult struct {
	Deployments []domain.Deployment
	Receipts    []domain.Receipt
}

// FundedEvent is published when FundMe receives a contribution.
type FundedEvent struct {
	Contract    common.Address
	Funder      common.Address
	Amount      *big.Int
	Balance     *big.Int
	TxHash      common.Hash
	BlockNumber uint64
	Timestamp   int64
}

// WithdrawnEvent is published when the owner withdraws the FundMe balance.
type WithdrawnEvent struct {
	Contract    common.Address
	Owner       common.Address
	Amount      *big.Int
	Method      string
	TxHash      common.Hash
	BlockNumber uint64
	Timestamp   int64
}
