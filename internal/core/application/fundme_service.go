package application

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
	"github.com/fundme-network/fundme-daemon/pkg/stats"
)

// FundMeService exposes the operations of the deployed FundMe contract.
type FundMeService interface {
	Fund(
		ctx context.Context, from common.Address, value *big.Int,
	) (*domain.Receipt, error)
	// Send transfers value to FundMe with arbitrary call data, ending up in
	// either receive or fallback.
	Send(
		ctx context.Context, from common.Address, value *big.Int, data []byte,
	) (*domain.Receipt, error)
	Withdraw(ctx context.Context, from common.Address) (*domain.Receipt, error)
	CheaperWithdraw(
		ctx context.Context, from common.Address,
	) (*domain.Receipt, error)
	GetOwner(ctx context.Context) (common.Address, error)
	GetPriceFeed(ctx context.Context) (common.Address, error)
	GetAddressToAmountFunded(
		ctx context.Context, funder common.Address,
	) (*big.Int, error)
	GetFunder(ctx context.Context, index int) (common.Address, error)
	GetFunders(ctx context.Context) ([]FunderInfo, error)
	GetContractBalance(ctx context.Context) (*big.Int, error)
	GetInfo(ctx context.Context) (*FundMeInfo, error)
}

type fundMeService struct {
	node      NodeService
	deploySvc DeployService
	publisher EventPublisher
}

// NewFundMeService returns the service bound to the FundMe deployment. The
// publisher is optional.
func NewFundMeService(
	node NodeService, deploySvc DeployService, publisher EventPublisher,
) FundMeService {
	return &fundMeService{node, deploySvc, publisher}
}

func (s *fundMeService) Fund(
	ctx context.Context, from common.Address, value *big.Int,
) (*domain.Receipt, error) {
	return s.sendTransaction(ctx, TxRequest{
		From:   from,
		Value:  value,
		Method: MethodFund,
	})
}

func (s *fundMeService) Send(
	ctx context.Context, from common.Address, value *big.Int, data []byte,
) (*domain.Receipt, error) {
	return s.sendTransaction(ctx, TxRequest{
		From:  from,
		Value: value,
		Data:  data,
	})
}

func (s *fundMeService) Withdraw(
	ctx context.Context, from common.Address,
) (*domain.Receipt, error) {
	return s.sendTransaction(ctx, TxRequest{
		From:   from,
		Method: MethodWithdraw,
	})
}

func (s *fundMeService) CheaperWithdraw(
	ctx context.Context, from common.Address,
) (*domain.Receipt, error) {
	return s.sendTransaction(ctx, TxRequest{
		From:   from,
		Method: MethodCheaperWithdraw,
	})
}

func (s *fundMeService) GetOwner(ctx context.Context) (common.Address, error) {
	res, err := s.call(ctx, MethodGetOwner)
	if err != nil {
		return common.Address{}, err
	}
	return res.(common.Address), nil
}

func (s *fundMeService) GetPriceFeed(
	ctx context.Context,
) (common.Address, error) {
	res, err := s.call(ctx, MethodGetPriceFeed)
	if err != nil {
		return common.Address{}, err
	}
	return res.(common.Address), nil
}

func (s *fundMeService) GetAddressToAmountFunded(
	ctx context.Context, funder common.Address,
) (*big.Int, error) {
	res, err := s.call(ctx, MethodGetAddressToAmountFunded, funder.Hex())
	if err != nil {
		return nil, err
	}
	return res.(*big.Int), nil
}

func (s *fundMeService) GetFunder(
	ctx context.Context, index int,
) (common.Address, error) {
	if index < 0 {
		return common.Address{}, domain.ErrFunderIndexOutOfRange
	}
	res, err := s.call(ctx, MethodGetFunder, fmt.Sprint(index))
	if err != nil {
		return common.Address{}, err
	}
	return res.(common.Address), nil
}

// GetFunders reads the funders and their amounts from the same state, so a
// concurrent withdrawal can't leave amounts that don't match the list.
func (s *fundMeService) GetFunders(ctx context.Context) ([]FunderInfo, error) {
	address, err := s.deploySvc.GetFundMeAddress(ctx)
	if err != nil {
		return nil, err
	}

	var info []FunderInfo
	if err := s.node.Snapshot(ctx, func(call CallFunc) error {
		res, err := call(CallRequest{To: address, Method: MethodGetFunders})
		if err != nil {
			return err
		}
		funders := res.([]common.Address)

		info = make([]FunderInfo, 0, len(funders))
		for i, funder := range funders {
			amount, err := call(CallRequest{
				To:     address,
				Method: MethodGetAddressToAmountFunded,
				Args:   []string{funder.Hex()},
			})
			if err != nil {
				return err
			}
			info = append(info, FunderInfo{
				Index:   i,
				Address: funder,
				Amount:  amount.(*big.Int),
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *fundMeService) GetContractBalance(
	ctx context.Context,
) (*big.Int, error) {
	address, err := s.deploySvc.GetFundMeAddress(ctx)
	if err != nil {
		return nil, err
	}
	return s.node.GetBalance(ctx, address)
}

func (s *fundMeService) GetInfo(ctx context.Context) (*FundMeInfo, error) {
	address, err := s.deploySvc.GetFundMeAddress(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := s.GetOwner(ctx)
	if err != nil {
		return nil, err
	}
	priceFeed, err := s.GetPriceFeed(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := s.node.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	funders, err := s.GetFunders(ctx)
	if err != nil {
		return nil, err
	}

	return &FundMeInfo{
		Address:   address,
		Owner:     owner,
		PriceFeed: priceFeed,
		Balance:   balance,
		Funders:   funders,
	}, nil
}

func (s *fundMeService) sendTransaction(
	ctx context.Context, req TxRequest,
) (*domain.Receipt, error) {
	address, err := s.deploySvc.GetFundMeAddress(ctx)
	if err != nil {
		return nil, err
	}
	req.To = address

	receipt, err := s.node.SendTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	s.handleLogs(ctx, receipt)
	return receipt, nil
}

func (s *fundMeService) call(
	ctx context.Context, method string, args ...string,
) (interface{}, error) {
	address, err := s.deploySvc.GetFundMeAddress(ctx)
	if err != nil {
		return nil, err
	}
	return s.node.Call(ctx, CallRequest{
		To:     address,
		Method: method,
		Args:   args,
	})
}

// handleLogs updates the metrics and publishes the events emitted by FundMe
// in the given receipt. Failures are only logged since the transaction is
// already mined.
func (s *fundMeService) handleLogs(ctx context.Context, receipt *domain.Receipt) {
	balance, err := s.node.GetBalance(ctx, receipt.To)
	if err != nil {
		log.WithError(err).Warn("failed to get FundMe balance")
		balance = big.NewInt(0)
	}
	stats.SetContractBalance(ethunit.ToFloat64(balance))
	if res, err := s.call(ctx, MethodGetFunders); err == nil {
		stats.SetNumOfFunders(len(res.([]common.Address)))
	}

	for _, l := range receipt.Logs {
		amount, _ := new(big.Int).SetString(l.Data["amount"], 10)
		if amount == nil {
			amount = big.NewInt(0)
		}

		switch l.Event {
		case EventFunded:
			stats.RecordFunding(ethunit.ToFloat64(amount))
			log.Infof(
				"%s funded %s ETH", l.Data["funder"], ethunit.FormatEther(amount),
			)
			if s.publisher == nil {
				continue
			}
			if err := s.publisher.PublishFundedEvent(ctx, FundedEvent{
				Contract:    receipt.To,
				Funder:      common.HexToAddress(l.Data["funder"]),
				Amount:      amount,
				Balance:     balance,
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				Timestamp:   receipt.Timestamp,
			}); err != nil {
				log.WithError(err).Warn("failed to publish funded event")
			}

		case EventWithdrawn:
			stats.RecordWithdrawal(ethunit.ToFloat64(amount))
			log.Infof(
				"%s withdrew %s ETH", l.Data["owner"], ethunit.FormatEther(amount),
			)
			if s.publisher == nil {
				continue
			}
			if err := s.publisher.PublishWithdrawnEvent(ctx, WithdrawnEvent{
				Contract:    receipt.To,
				Owner:       common.HexToAddress(l.Data["owner"]),
				Amount:      amount,
				Method:      receipt.Method,
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				Timestamp:   receipt.Timestamp,
			}); err != nil {
				log.WithError(err).Warn("failed to publish withdrawn event")
			}
		}
	}
}
