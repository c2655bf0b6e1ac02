package application

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

// contractCodeSize is the size in bytes of the runtime code of every known
// contract, used to charge the code deposit at deployment.
var contractCodeSize = map[domain.ContractKind]uint64{
	domain.ContractFundMe:           2630,
	domain.ContractMockV3Aggregator: 1842,
}

var fundMeMethods = []string{
	MethodFund,
	MethodWithdraw,
	MethodCheaperWithdraw,
	MethodGetOwner,
	MethodGetPriceFeed,
	MethodGetAddressToAmountFunded,
	MethodGetFunder,
	MethodGetFunders,
}

// txContext is the execution context of a single transaction.
type txContext struct {
	from   common.Address
	to     common.Address
	value  *big.Int
	method string
	args   []string
	data   []byte
	gas    *domain.GasMeter
	logs   []domain.Log
	now    int64
}

// emit charges and records an event emitted by the contract at address.
func (tx *txContext) emit(
	address common.Address, event string, topics, dataLen int,
	data map[string]string,
) error {
	if err := tx.gas.Log(topics, dataLen); err != nil {
		return err
	}
	tx.logs = append(tx.logs, domain.Log{
		Address: address,
		Event:   event,
		Data:    data,
	})
	return nil
}

// transferAndDispatch moves the value of the transaction to the target and
// executes the target code, if any. It returns the name of the executed
// method.
func (s *nodeService) transferAndDispatch(
	ctx context.Context, tx *txContext, target *domain.Account,
) (string, error) {
	accountRepo := s.repoManager.AccountRepository()

	if err := accountRepo.UpdateAccount(
		ctx, tx.from, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Debit(tx.value); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return tx.method, err
	}

	if err := accountRepo.UpdateAccount(
		ctx, tx.to, func(a *domain.Account) (*domain.Account, error) {
			credit := a.Receive
			if a.IsContract() {
				// Contracts decide whether to accept the value in their code.
				credit = a.Credit
			}
			if err := credit(tx.value); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return tx.method, err
	}

	switch target.Contract {
	case domain.ContractFundMe:
		return s.execFundMe(ctx, tx)
	case domain.ContractMockV3Aggregator:
		return tx.method, s.execAggregator(ctx, tx)
	default:
		if tx.method != "" {
			return tx.method, ErrContractNotFound
		}
		return "", nil
	}
}

// construct runs the constructor of the given contract kind at tx.to.
func (s *nodeService) construct(
	ctx context.Context, tx *txContext, kind domain.ContractKind,
) error {
	switch kind {
	case domain.ContractMockV3Aggregator:
		if err := checkNumOfArgs("MockV3Aggregator", tx.args, 2); err != nil {
			return err
		}
		decimals, err := parseUint(tx.args[0])
		if err != nil {
			return err
		}
		if decimals > math.MaxUint8 {
			return domain.ErrInvalidDecimals
		}
		answer, err := parseBigInt(tx.args[1])
		if err != nil {
			return err
		}

		aggregator, err := domain.NewAggregator(
			tx.to, uint8(decimals), answer, tx.now,
		)
		if err != nil {
			return err
		}
		if err := tx.gas.SStore("decimals", true, decimals == 0); err != nil {
			return err
		}
		if err := chargeRoundUpdate(tx.gas, nil, 1); err != nil {
			return err
		}
		if err := s.repoManager.AggregatorRepository().AddAggregator(
			ctx, aggregator,
		); err != nil {
			return err
		}
		return emitRoundUpdate(tx, aggregator)

	case domain.ContractFundMe:
		if err := checkNumOfArgs("FundMe", tx.args, 1); err != nil {
			return err
		}
		// The feed is only looked up by fund, it can be bound later.
		priceFeed, err := parseAddress(tx.args[0])
		if err != nil {
			return err
		}

		fundMe, err := domain.NewFundMe(tx.to, tx.from, priceFeed)
		if err != nil {
			return err
		}
		if err := tx.gas.SStore("s_priceFeed", true, false); err != nil {
			return err
		}
		return s.repoManager.FundMeRepository().AddFundMe(ctx, fundMe)

	default:
		return ErrUnknownContract
	}
}

func (s *nodeService) execFundMe(
	ctx context.Context, tx *txContext,
) (string, error) {
	method, err := s.resolveFundMeMethod(tx)
	if err != nil {
		return tx.method, err
	}

	switch method {
	case MethodFund, MethodReceive, MethodFallback:
		return method, s.fund(ctx, tx)
	case MethodWithdraw, MethodCheaperWithdraw:
		if tx.value.Sign() > 0 {
			return method, ErrNonPayable
		}
		return method, s.withdraw(ctx, tx, method == MethodCheaperWithdraw)
	default:
		if tx.value.Sign() > 0 {
			return method, ErrNonPayable
		}
		_, err := s.fundMeView(ctx, tx.to, method, tx.args, tx.gas)
		return method, err
	}
}

// resolveFundMeMethod picks the entry point of FundMe for the transaction.
// A bare transfer goes to receive, call data not matching any method goes to
// fallback.
func (s *nodeService) resolveFundMeMethod(tx *txContext) (string, error) {
	if tx.method == "" {
		if len(tx.data) == 0 {
			return MethodReceive, nil
		}
		if len(tx.data) >= 4 {
			for _, m := range fundMeMethods {
				if bytes.Equal(tx.data[:4], methodSelector(m)) {
					return m, nil
				}
			}
		}
	} else {
		for _, m := range fundMeMethods {
			if m == tx.method {
				return m, nil
			}
		}
	}

	if s.cfg.StrictFallback {
		return "", ErrUnknownMethod
	}
	return MethodFallback, nil
}

func (s *nodeService) fund(ctx context.Context, tx *txContext) error {
	fundMe, err := s.repoManager.FundMeRepository().GetFundMe(ctx, tx.to)
	if err != nil {
		return err
	}
	feed, err := s.priceFeedAt(ctx, fundMe.PriceFeed)
	if err != nil {
		return err
	}
	if err := tx.gas.ConsumeGas(
		params.ColdAccountAccessCostEIP2929, "STATICCALL priceFeed",
	); err != nil {
		return err
	}
	decimals, err := feed.Decimals(ctx)
	if err != nil {
		return err
	}
	roundData, err := feed.LatestRoundData(ctx)
	if err != nil {
		return err
	}

	if err := s.repoManager.FundMeRepository().UpdateFundMe(
		ctx, tx.to, func(f *domain.FundMe) (*domain.FundMe, error) {
			if err := f.Fund(
				tx.from, tx.value, roundData.Answer, decimals, tx.gas,
			); err != nil {
				return nil, err
			}
			return f, nil
		},
	); err != nil {
		return err
	}

	return tx.emit(tx.to, EventFunded, 2, 32, map[string]string{
		"funder": tx.from.Hex(),
		"amount": tx.value.String(),
	})
}

func (s *nodeService) withdraw(
	ctx context.Context, tx *txContext, cheaper bool,
) error {
	var owner common.Address
	if err := s.repoManager.FundMeRepository().UpdateFundMe(
		ctx, tx.to, func(f *domain.FundMe) (*domain.FundMe, error) {
			withdrawFn := f.Withdraw
			if cheaper {
				withdrawFn = f.CheaperWithdraw
			}
			if err := withdrawFn(tx.from, tx.gas); err != nil {
				return nil, err
			}
			owner = f.Owner
			return f, nil
		},
	); err != nil {
		return err
	}

	contract, err := s.repoManager.AccountRepository().GetAccount(ctx, tx.to)
	if err != nil {
		return err
	}
	amount := contract.GetBalance()
	if err := s.payout(ctx, tx, owner, amount); err != nil {
		return err
	}

	return tx.emit(tx.to, EventWithdrawn, 2, 32, map[string]string{
		"owner":  owner.Hex(),
		"amount": amount.String(),
	})
}

// payout sends amount from the contract executing the transaction to the
// given recipient with a low level call.
func (s *nodeService) payout(
	ctx context.Context, tx *txContext, recipient common.Address,
	amount *big.Int,
) error {
	cost := params.ColdAccountAccessCostEIP2929
	if amount.Sign() > 0 {
		cost += params.CallValueTransferGas
	}
	if err := tx.gas.ConsumeGas(cost, "CALL "+recipient.Hex()); err != nil {
		return err
	}

	accountRepo := s.repoManager.AccountRepository()
	if err := accountRepo.UpdateAccount(
		ctx, tx.to, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Debit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return err
	}
	return accountRepo.UpdateAccount(
		ctx, recipient, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Receive(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (s *nodeService) fundMeView(
	ctx context.Context, address common.Address, method string, args []string,
	gas *domain.GasMeter,
) (interface{}, error) {
	fundMe, err := s.repoManager.FundMeRepository().GetFundMe(ctx, address)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodGetOwner:
		if err := checkNumOfArgs(method, args, 0); err != nil {
			return nil, err
		}
		// The owner is immutable and embedded in the contract code.
		return fundMe.Owner, nil

	case MethodGetPriceFeed:
		if err := checkNumOfArgs(method, args, 0); err != nil {
			return nil, err
		}
		if err := gas.SLoad("s_priceFeed"); err != nil {
			return nil, err
		}
		return fundMe.PriceFeed, nil

	case MethodGetAddressToAmountFunded:
		if err := checkNumOfArgs(method, args, 1); err != nil {
			return nil, err
		}
		funder, err := parseAddress(args[0])
		if err != nil {
			return nil, err
		}
		if err := gas.SLoad(
			fmt.Sprintf("s_addressToAmountFunded[%s]", funder.Hex()),
		); err != nil {
			return nil, err
		}
		return fundMe.GetAddressToAmountFunded(funder), nil

	case MethodGetFunder:
		if err := checkNumOfArgs(method, args, 1); err != nil {
			return nil, err
		}
		index, err := parseUint(args[0])
		if err != nil {
			return nil, err
		}
		if index > math.MaxInt32 {
			return nil, domain.ErrFunderIndexOutOfRange
		}
		if err := gas.SLoad("s_funders.length"); err != nil {
			return nil, err
		}
		return fundMe.GetFunder(int(index))

	case MethodGetFunders:
		funders := fundMe.GetFunders()
		for i := range funders {
			if err := gas.SLoad(fmt.Sprintf("s_funders[%d]", i)); err != nil {
				return nil, err
			}
		}
		return funders, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (s *nodeService) execAggregator(ctx context.Context, tx *txContext) error {
	if tx.value.Sign() > 0 {
		return ErrNonPayable
	}

	switch tx.method {
	case MethodUpdateAnswer:
		if err := checkNumOfArgs(tx.method, tx.args, 1); err != nil {
			return err
		}
		answer, err := parseBigInt(tx.args[0])
		if err != nil {
			return err
		}
		return s.updateAggregator(
			ctx, tx, func(a *domain.Aggregator) error {
				if err := chargeRoundUpdate(tx.gas, a, a.LatestRound+1); err != nil {
					return err
				}
				a.UpdateAnswer(answer, tx.now)
				return nil
			},
		)

	case MethodUpdateRoundData:
		if err := checkNumOfArgs(tx.method, tx.args, 4); err != nil {
			return err
		}
		roundID, err := parseUint(tx.args[0])
		if err != nil {
			return err
		}
		answer, err := parseBigInt(tx.args[1])
		if err != nil {
			return err
		}
		timestamp, err := parseInt64(tx.args[2])
		if err != nil {
			return err
		}
		startedAt, err := parseInt64(tx.args[3])
		if err != nil {
			return err
		}
		return s.updateAggregator(
			ctx, tx, func(a *domain.Aggregator) error {
				if err := chargeRoundUpdate(tx.gas, a, roundID); err != nil {
					return err
				}
				a.UpdateRoundData(roundID, answer, timestamp, startedAt)
				return nil
			},
		)

	default:
		_, err := s.aggregatorView(ctx, tx.to, tx.method, tx.args, tx.gas)
		return err
	}
}

func (s *nodeService) updateAggregator(
	ctx context.Context, tx *txContext, updateFn func(a *domain.Aggregator) error,
) error {
	var updated *domain.Aggregator
	if err := s.repoManager.AggregatorRepository().UpdateAggregator(
		ctx, tx.to, func(a *domain.Aggregator) (*domain.Aggregator, error) {
			if err := updateFn(a); err != nil {
				return nil, err
			}
			updated = a
			return a, nil
		},
	); err != nil {
		return err
	}
	return emitRoundUpdate(tx, updated)
}

func (s *nodeService) aggregatorView(
	ctx context.Context, address common.Address, method string, args []string,
	gas *domain.GasMeter,
) (interface{}, error) {
	aggregator, err := s.repoManager.AggregatorRepository().GetAggregator(
		ctx, address,
	)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodDecimals:
		if err := gas.SLoad("decimals"); err != nil {
			return nil, err
		}
		return aggregator.Decimals, nil
	case MethodVersion:
		return uint64(domain.AggregatorVersion), nil
	case MethodDescription:
		return domain.AggregatorDescription, nil
	case MethodLatestRoundData:
		if err := gas.SLoad("latestRound"); err != nil {
			return nil, err
		}
		return aggregator.LatestRoundData(), nil
	case MethodGetRoundData:
		if err := checkNumOfArgs(method, args, 1); err != nil {
			return nil, err
		}
		roundID, err := parseUint(args[0])
		if err != nil {
			return nil, err
		}
		if err := gas.SLoad(fmt.Sprintf("getAnswer[%d]", roundID)); err != nil {
			return nil, err
		}
		return aggregator.GetRoundData(roundID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// chargeRoundUpdate charges the storage writes of a new answer for the given
// round. a is nil at construction.
func chargeRoundUpdate(
	gas *domain.GasMeter, a *domain.Aggregator, roundID uint64,
) error {
	isNew := a == nil
	for _, slot := range []string{"latestAnswer", "latestTimestamp", "latestRound"} {
		if err := gas.SStore(slot, isNew, false); err != nil {
			return err
		}
	}

	isNewRound := true
	if a != nil {
		_, exists := a.Rounds[roundID]
		isNewRound = !exists
	}
	for _, slot := range []string{"getAnswer", "getTimestamp", "getStartedAt"} {
		if err := gas.SStore(
			fmt.Sprintf("%s[%d]", slot, roundID), isNewRound, false,
		); err != nil {
			return err
		}
	}
	return nil
}

func emitRoundUpdate(tx *txContext, a *domain.Aggregator) error {
	round := a.LatestRoundData()
	roundID := fmt.Sprint(round.RoundID)

	if err := tx.emit(a.Address, EventAnswerUpdated, 3, 32, map[string]string{
		"current":   round.Answer.String(),
		"roundId":   roundID,
		"updatedAt": fmt.Sprint(round.UpdatedAt),
	}); err != nil {
		return err
	}
	return tx.emit(a.Address, EventNewRound, 3, 32, map[string]string{
		"roundId":   roundID,
		"startedBy": tx.from.Hex(),
		"startedAt": fmt.Sprint(round.StartedAt),
	})
}
