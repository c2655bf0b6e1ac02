package application

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	"github.com/fundme-network/fundme-daemon/pkg/stats"
)

const (
	DefaultGasPrice      = 1000000000
	DefaultBlockGasLimit = 30000000
	DefaultNumOfAccounts = 20
	DefaultAccountsSeed  = "test test test test test test test test test test test junk"
)

// DefaultAccountBalance is the balance of every signer account, 10000 ether.
var DefaultAccountBalance = new(big.Int).Mul(
	big.NewInt(10000), big.NewInt(params.Ether),
)

// NodeService runs the chain where FundMe and the mock aggregator live.
// Transactions are executed one at a time, each one is either fully applied
// and mined in its own block or discarded.
type NodeService interface {
	// Init adds the signer accounts to the chain state, if not already there.
	Init(ctx context.Context) error
	GetInfo(ctx context.Context) (*NodeInfo, error)
	Network() domain.Network
	// Signers returns the addresses of the accounts managed by the node.
	Signers() []common.Address
	GetAccounts(ctx context.Context) ([]AccountInfo, error)
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	SendTransaction(ctx context.Context, req TxRequest) (*domain.Receipt, error)
	DeployContract(
		ctx context.Context, req DeployRequest,
	) (*domain.Receipt, error)
	// Call executes a read-only contract method.
	Call(ctx context.Context, req CallRequest) (interface{}, error)
	// Snapshot runs fn with a call function whose reads all see the same
	// chain state.
	Snapshot(ctx context.Context, fn func(call CallFunc) error) error
	GetReceipt(ctx context.Context, txHash common.Hash) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, page *domain.Page) ([]domain.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	// SetRejectPayments makes the given account refuse or accept incoming
	// ether transfers. Allowed only on development chains.
	SetRejectPayments(
		ctx context.Context, address common.Address, reject bool,
	) error
	// RegisterPriceFeed binds an external price feed to the given address.
	RegisterPriceFeed(address common.Address, feed ports.PriceFeed)
	// PriceFeedAt returns the price feed at the given address, either a mock
	// aggregator or a registered external feed.
	PriceFeedAt(
		ctx context.Context, address common.Address,
	) (ports.PriceFeed, error)
}

type nodeService struct {
	lock        sync.Mutex
	repoManager ports.RepoManager
	cfg         NodeConfig
	signers     []common.Address

	feedsLock  sync.RWMutex
	priceFeeds map[common.Address]ports.PriceFeed

	now func() time.Time
}

func NewNodeService(
	repoManager ports.RepoManager, cfg NodeConfig,
) (NodeService, error) {
	return newNodeService(repoManager, cfg)
}

func newNodeService(
	repoManager ports.RepoManager, cfg NodeConfig,
) (*nodeService, error) {
	if cfg.GasPrice == nil {
		cfg.GasPrice = big.NewInt(DefaultGasPrice)
	}
	if cfg.GasPrice.Sign() < 0 {
		return nil, fmt.Errorf("gas price must not be negative")
	}
	if cfg.BlockGasLimit == 0 {
		cfg.BlockGasLimit = DefaultBlockGasLimit
	}
	if cfg.NumOfAccounts <= 0 {
		cfg.NumOfAccounts = DefaultNumOfAccounts
	}
	if cfg.AccountBalance == nil {
		cfg.AccountBalance = new(big.Int).Set(DefaultAccountBalance)
	}
	if cfg.AccountsSeed == "" {
		cfg.AccountsSeed = DefaultAccountsSeed
	}

	signers, err := deriveSigners(cfg.AccountsSeed, cfg.NumOfAccounts)
	if err != nil {
		return nil, err
	}

	return &nodeService{
		repoManager: repoManager,
		cfg:         cfg,
		signers:     signers,
		priceFeeds:  make(map[common.Address]ports.PriceFeed),
		now:         time.Now,
	}, nil
}

func (s *nodeService) Init(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	accounts := make([]*domain.Account, 0, len(s.signers))
	for _, signer := range s.signers {
		accounts = append(accounts, domain.NewAccount(signer, s.cfg.AccountBalance))
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().AddAccounts(ctx, accounts)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add signer accounts: %w", err)
	}

	if count := res.(int); count > 0 {
		log.Infof(
			"added %d signer accounts funded with %s wei each",
			count, s.cfg.AccountBalance,
		)
	}
	return nil
}

func (s *nodeService) GetInfo(ctx context.Context) (*NodeInfo, error) {
	blockNumber, err := s.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &NodeInfo{
		Network:            s.cfg.Network.Name,
		ChainID:            s.cfg.Network.ChainID,
		IsDevelopmentChain: s.cfg.Network.IsDevelopmentChain(),
		BlockNumber:        blockNumber,
		GasPrice:           new(big.Int).Set(s.cfg.GasPrice),
		BlockGasLimit:      s.cfg.BlockGasLimit,
	}, nil
}

func (s *nodeService) Network() domain.Network {
	return s.cfg.Network
}

func (s *nodeService) Signers() []common.Address {
	signers := make([]common.Address, len(s.signers))
	copy(signers, s.signers)
	return signers
}

func (s *nodeService) GetAccounts(ctx context.Context) ([]AccountInfo, error) {
	accounts, err := s.repoManager.AccountRepository().GetAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	info := make([]AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		info = append(info, AccountInfo{
			Address:         a.Address,
			Balance:         a.GetBalance(),
			Nonce:           a.Nonce,
			Contract:        a.Contract,
			RejectsPayments: a.RejectsPayments,
		})
	}
	return info, nil
}

func (s *nodeService) GetBalance(
	ctx context.Context, address common.Address,
) (*big.Int, error) {
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	return account.GetBalance(), nil
}

func (s *nodeService) SendTransaction(
	ctx context.Context, req TxRequest,
) (*domain.Receipt, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	value, err := txValue(req.Value)
	if err != nil {
		return nil, err
	}
	gasLimit, err := s.gasLimit(req.GasLimit)
	if err != nil {
		return nil, err
	}
	data, err := encodeCallData(req.Method, req.Args, req.Data)
	if err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.execute(ctx, req, value, data, gasLimit)
		},
	)
	if err != nil {
		stats.RecordTransaction(req.Method, true)

		var revertErr *RevertError
		if errors.As(err, &revertErr) {
			log.WithFields(log.Fields{
				"from":   req.From.Hex(),
				"to":     req.To.Hex(),
				"method": revertErr.Method,
			}).Debugf("transaction reverted: %s", revertErr.Reason())
		}
		return nil, err
	}

	receipt := res.(*domain.Receipt)
	stats.RecordTransaction(receipt.Method, false)
	log.WithFields(log.Fields{
		"hash":   receipt.TxHash.Hex(),
		"block":  receipt.BlockNumber,
		"method": receipt.Method,
		"gas":    receipt.GasUsed,
	}).Debug("transaction mined")

	return receipt, nil
}

func (s *nodeService) DeployContract(
	ctx context.Context, req DeployRequest,
) (*domain.Receipt, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	codeSize, ok := contractCodeSize[req.Contract]
	if !ok {
		return nil, ErrUnknownContract
	}
	data := make([]byte, 0, 32*len(req.Args))
	for _, arg := range req.Args {
		word, err := encodeArg(arg)
		if err != nil {
			return nil, err
		}
		data = append(data, word...)
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.deploy(ctx, req, data, codeSize)
		},
	)
	if err != nil {
		stats.RecordTransaction("deploy"+string(req.Contract), true)
		return nil, err
	}

	receipt := res.(*domain.Receipt)
	stats.RecordTransaction("deploy"+string(req.Contract), false)
	log.WithFields(log.Fields{
		"contract": req.Contract,
		"address":  receipt.ContractAddress.Hex(),
		"gas":      receipt.GasUsed,
	}).Debug("contract deployed")

	return receipt, nil
}

func (s *nodeService) Call(
	ctx context.Context, req CallRequest,
) (interface{}, error) {
	return s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.view(ctx, req)
		},
	)
}

func (s *nodeService) Snapshot(
	ctx context.Context, fn func(call CallFunc) error,
) error {
	_, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return nil, fn(func(req CallRequest) (interface{}, error) {
				return s.view(ctx, req)
			})
		},
	)
	return err
}

// view must run within a db transaction.
func (s *nodeService) view(
	ctx context.Context, req CallRequest,
) (interface{}, error) {
	target, err := s.repoManager.AccountRepository().GetAccount(ctx, req.To)
	if err != nil {
		return nil, err
	}

	switch target.Contract {
	case domain.ContractFundMe:
		return s.fundMeView(ctx, req.To, req.Method, req.Args, nil)
	case domain.ContractMockV3Aggregator:
		return s.aggregatorView(ctx, req.To, req.Method, req.Args, nil)
	default:
		return nil, ErrContractNotFound
	}
}

func (s *nodeService) GetReceipt(
	ctx context.Context, txHash common.Hash,
) (*domain.Receipt, error) {
	return s.repoManager.ReceiptRepository().GetReceipt(ctx, txHash)
}

func (s *nodeService) ListReceipts(
	ctx context.Context, page *domain.Page,
) ([]domain.Receipt, error) {
	return s.repoManager.ReceiptRepository().GetAllReceipts(ctx, page)
}

func (s *nodeService) BlockNumber(ctx context.Context) (uint64, error) {
	return s.repoManager.ReceiptRepository().GetBlockNumber(ctx)
}

func (s *nodeService) SetRejectPayments(
	ctx context.Context, address common.Address, reject bool,
) error {
	if !s.cfg.Network.IsDevelopmentChain() {
		return ErrNotDevelopmentChain
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.AccountRepository().UpdateAccount(
				ctx, address, func(a *domain.Account) (*domain.Account, error) {
					a.RejectsPayments = reject
					return a, nil
				},
			)
		},
	)
	return err
}

func (s *nodeService) RegisterPriceFeed(
	address common.Address, feed ports.PriceFeed,
) {
	s.feedsLock.Lock()
	defer s.feedsLock.Unlock()

	s.priceFeeds[address] = feed
}

func (s *nodeService) PriceFeedAt(
	ctx context.Context, address common.Address,
) (ports.PriceFeed, error) {
	return s.priceFeedAt(ctx, address)
}

func (s *nodeService) priceFeedAt(
	ctx context.Context, address common.Address,
) (ports.PriceFeed, error) {
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if account.Contract == domain.ContractMockV3Aggregator {
		return newAggregatorPriceFeed(
			s.repoManager.AggregatorRepository(), address,
		), nil
	}

	s.feedsLock.RLock()
	defer s.feedsLock.RUnlock()

	if feed, ok := s.priceFeeds[address]; ok {
		return feed, nil
	}
	return nil, ErrMissingPriceFeed
}

// execute runs a transaction within a db transaction. Errors returned before
// the dispatch to the target make the transaction invalid, those returned
// after are reverts.
func (s *nodeService) execute(
	ctx context.Context, req TxRequest, value *big.Int, data []byte,
	gasLimit uint64,
) (*domain.Receipt, error) {
	accountRepo := s.repoManager.AccountRepository()

	sender, err := s.checkSender(ctx, req.From, value, gasLimit)
	if err != nil {
		return nil, err
	}

	gas := domain.NewGasMeter(gasLimit)
	if err := gas.ConsumeGas(
		domain.IntrinsicGas(data, false), "intrinsic gas",
	); err != nil {
		return nil, err
	}

	target, err := accountRepo.GetAccount(ctx, req.To)
	if err != nil {
		return nil, err
	}

	tx := &txContext{
		from:   req.From,
		to:     req.To,
		value:  value,
		method: req.Method,
		args:   req.Args,
		data:   data,
		gas:    gas,
		now:    s.now().Unix(),
	}

	method, err := s.transferAndDispatch(ctx, tx, target)
	if err != nil {
		return nil, &RevertError{Method: method, Err: err}
	}

	receipt := &domain.Receipt{
		From:      req.From,
		To:        req.To,
		Nonce:     sender.Nonce,
		Value:     new(big.Int).Set(value),
		Method:    method,
		Data:      data,
		GasLimit:  gasLimit,
		GasUsed:   gas.GasUsed(),
		GasPrice:  new(big.Int).Set(s.cfg.GasPrice),
		Status:    domain.ReceiptStatusSuccessful,
		Logs:      tx.logs,
		Timestamp: tx.now,
	}
	if err := s.mine(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *nodeService) deploy(
	ctx context.Context, req DeployRequest, data []byte, codeSize uint64,
) (*domain.Receipt, error) {
	gasLimit := s.cfg.BlockGasLimit
	sender, err := s.checkSender(ctx, req.From, big.NewInt(0), gasLimit)
	if err != nil {
		return nil, err
	}

	gas := domain.NewGasMeter(gasLimit)
	if err := gas.ConsumeGas(
		domain.IntrinsicGas(data, true), "intrinsic gas",
	); err != nil {
		return nil, err
	}
	if err := gas.ConsumeGas(
		codeSize*params.CreateDataGas, "code deposit",
	); err != nil {
		return nil, err
	}

	address := crypto.CreateAddress(req.From, sender.Nonce)
	tx := &txContext{
		from:  req.From,
		to:    address,
		value: big.NewInt(0),
		args:  req.Args,
		data:  data,
		gas:   gas,
		now:   s.now().Unix(),
	}

	if err := s.construct(ctx, tx, req.Contract); err != nil {
		return nil, &RevertError{Method: "constructor", Err: err}
	}

	if err := s.repoManager.AccountRepository().UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			a.Contract = req.Contract
			return a, nil
		},
	); err != nil {
		return nil, err
	}

	receipt := &domain.Receipt{
		From:            req.From,
		ContractAddress: address,
		Nonce:           sender.Nonce,
		Value:           big.NewInt(0),
		Method:          "constructor",
		Data:            data,
		GasLimit:        gasLimit,
		GasUsed:         gas.GasUsed(),
		GasPrice:        new(big.Int).Set(s.cfg.GasPrice),
		Status:          domain.ReceiptStatusSuccessful,
		Logs:            tx.logs,
		Timestamp:       tx.now,
	}
	if err := s.mine(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// checkSender makes sure the sender is an externally owned account able to
// pay for the value and the whole gas limit of the transaction.
func (s *nodeService) checkSender(
	ctx context.Context, from common.Address, value *big.Int, gasLimit uint64,
) (*domain.Account, error) {
	sender, err := s.repoManager.AccountRepository().GetAccount(ctx, from)
	if err != nil {
		return nil, err
	}
	if sender.IsContract() {
		return nil, ErrInvalidSender
	}

	cost := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), s.cfg.GasPrice)
	cost.Add(cost, value)
	if sender.GetBalance().Cmp(cost) < 0 {
		return nil, domain.ErrInsufficientFunds
	}
	return sender, nil
}

// mine charges the fee to the sender, bumps its nonce and stores the receipt
// in a new block.
func (s *nodeService) mine(ctx context.Context, receipt *domain.Receipt) error {
	fee := receipt.Fee()
	if err := s.repoManager.AccountRepository().UpdateAccount(
		ctx, receipt.From, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Debit(fee); err != nil {
				return nil, err
			}
			a.IncrementNonce()
			return a, nil
		},
	); err != nil {
		return err
	}

	blockNumber, err := s.repoManager.ReceiptRepository().GetBlockNumber(ctx)
	if err != nil {
		return err
	}
	receipt.BlockNumber = blockNumber + 1
	receipt.TxHash = s.txHash(receipt)

	return s.repoManager.ReceiptRepository().AddReceipt(ctx, receipt)
}

func (s *nodeService) txHash(receipt *domain.Receipt) common.Hash {
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, receipt.Nonce)
	chainID := make([]byte, 8)
	binary.BigEndian.PutUint64(chainID, s.cfg.Network.ChainID)

	return crypto.Keccak256Hash(
		chainID,
		receipt.From.Bytes(),
		nonce,
		receipt.To.Bytes(),
		receipt.Value.Bytes(),
		receipt.Data,
	)
}

func (s *nodeService) gasLimit(requested uint64) (uint64, error) {
	if requested == 0 {
		return s.cfg.BlockGasLimit, nil
	}
	if requested > s.cfg.BlockGasLimit {
		return 0, ErrGasLimitExceeded
	}
	return requested, nil
}

func txValue(value *big.Int) (*big.Int, error) {
	if value == nil {
		return big.NewInt(0), nil
	}
	if value.Sign() < 0 {
		return nil, domain.ErrInvalidAmount
	}
	return new(big.Int).Set(value), nil
}

// deriveSigners returns the addresses of the first n private keys derived
// from the given seed.
func deriveSigners(seed string, n int) ([]common.Address, error) {
	signers := make([]common.Address, 0, n)
	for i := 0; i < n; i++ {
		key, err := DeriveSignerKey(seed, i)
		if err != nil {
			return nil, err
		}
		signers = append(signers, crypto.PubkeyToAddress(key.PublicKey))
	}
	return signers, nil
}
