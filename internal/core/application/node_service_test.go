package application_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

func TestNodeInit(t *testing.T) {
	svc := newServices(t, application.NodeConfig{NumOfAccounts: 3})
	require.Len(t, svc.signers, 3)

	other := newServices(t, application.NodeConfig{NumOfAccounts: 3})
	require.Equal(t, svc.signers, other.signers)

	accounts, err := svc.node.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for _, a := range accounts {
		require.Equal(t, application.DefaultAccountBalance.String(), a.Balance.String())
		require.Zero(t, a.Nonce)
		require.Equal(t, domain.ContractNone, a.Contract)
	}

	_, err = svc.node.SendTransaction(ctx, application.TxRequest{
		From:  svc.signers[0],
		To:    svc.signers[1],
		Value: ether("1"),
	})
	require.NoError(t, err)

	// Init must not reset accounts already known.
	require.NoError(t, svc.node.Init(ctx))
	require.Equal(
		t, add(application.DefaultAccountBalance, ether("1")).String(),
		svc.balance(t, svc.signers[1]).String(),
	)

	info, err := svc.node.GetInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "hardhat", info.Network)
	require.True(t, info.IsDevelopmentChain)
	require.Equal(t, uint64(1), info.BlockNumber)
}

func TestSendTransaction(t *testing.T) {
	t.Run("transfer", func(t *testing.T) {
		svc := newServices(t, application.NodeConfig{})
		from, to := svc.signers[1], svc.signers[2]
		startingFromBalance := svc.balance(t, from)
		startingToBalance := svc.balance(t, to)

		receipt, err := svc.node.SendTransaction(ctx, application.TxRequest{
			From:  from,
			To:    to,
			Value: sendValue,
		})
		require.NoError(t, err)
		require.Equal(t, params.TxGas, receipt.GasUsed)
		require.Equal(t, uint64(1), receipt.BlockNumber)
		require.Equal(t, uint64(domain.ReceiptStatusSuccessful), receipt.Status)
		require.Empty(t, receipt.Method)

		require.Equal(
			t, add(startingToBalance, sendValue).String(),
			svc.balance(t, to).String(),
		)
		require.Equal(
			t, startingFromBalance.String(),
			add(svc.balance(t, from), add(sendValue, receipt.Fee())).String(),
		)

		stored, err := svc.node.GetReceipt(ctx, receipt.TxHash)
		require.NoError(t, err)
		require.Equal(t, receipt.TxHash, stored.TxHash)

		next, err := svc.node.SendTransaction(ctx, application.TxRequest{
			From:  from,
			To:    to,
			Value: sendValue,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(1), next.Nonce)
		require.Equal(t, uint64(2), next.BlockNumber)
		require.NotEqual(t, receipt.TxHash, next.TxHash)
	})

	t.Run("transfer to account rejecting payments", func(t *testing.T) {
		svc := newServices(t, application.NodeConfig{})
		from, to := svc.signers[1], svc.signers[2]
		require.NoError(t, svc.node.SetRejectPayments(ctx, to, true))

		_, err := svc.node.SendTransaction(ctx, application.TxRequest{
			From:  from,
			To:    to,
			Value: sendValue,
		})
		require.ErrorIs(t, err, domain.ErrTransferFailed)
		require.Equal(
			t, application.DefaultAccountBalance.String(),
			svc.balance(t, from).String(),
		)
	})

	t.Run("invalid", func(t *testing.T) {
		svc := newDeployedServices(t, application.NodeConfig{})
		fundMe := svc.fundMeAddress(t)

		tests := []struct {
			name        string
			req         application.TxRequest
			expectedErr error
		}{
			{
				name: "gas limit above block gas limit",
				req: application.TxRequest{
					From:     svc.signers[1],
					To:       svc.signers[2],
					GasLimit: application.DefaultBlockGasLimit + 1,
				},
				expectedErr: application.ErrGasLimitExceeded,
			},
			{
				name: "negative value",
				req: application.TxRequest{
					From:  svc.signers[1],
					To:    svc.signers[2],
					Value: big.NewInt(-1),
				},
				expectedErr: domain.ErrInvalidAmount,
			},
			{
				name: "out of gas",
				req: application.TxRequest{
					From:     svc.signers[1],
					To:       fundMe,
					Value:    sendValue,
					Method:   application.MethodFund,
					GasLimit: 30000,
				},
				expectedErr: domain.ErrOutOfGas,
			},
			{
				name: "intrinsic gas too low",
				req: application.TxRequest{
					From:     svc.signers[1],
					To:       svc.signers[2],
					GasLimit: 20000,
				},
				expectedErr: domain.ErrOutOfGas,
			},
			{
				name: "sender is a contract",
				req: application.TxRequest{
					From: fundMe,
					To:   svc.signers[2],
				},
				expectedErr: application.ErrInvalidSender,
			},
			{
				name: "method on externally owned account",
				req: application.TxRequest{
					From:   svc.signers[1],
					To:     svc.signers[2],
					Method: application.MethodFund,
				},
				expectedErr: application.ErrContractNotFound,
			},
			{
				name: "invalid args",
				req: application.TxRequest{
					From:   svc.signers[1],
					To:     fundMe,
					Method: application.MethodGetFunder,
					Args:   []string{"abc"},
				},
				expectedErr: application.ErrInvalidArgs,
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				receipt, err := svc.node.SendTransaction(ctx, tt.req)
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, receipt)
			})
		}

		blockNumber, err := svc.node.BlockNumber(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), blockNumber)
	})
}

func TestListReceipts(t *testing.T) {
	svc := newServices(t, application.NodeConfig{})
	for i := 0; i < 5; i++ {
		_, err := svc.node.SendTransaction(ctx, application.TxRequest{
			From:  svc.signers[0],
			To:    svc.signers[1],
			Value: big.NewInt(int64(i + 1)),
		})
		require.NoError(t, err)
	}

	receipts, err := svc.node.ListReceipts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, receipts, 5)
	for i, r := range receipts {
		require.Equal(t, uint64(i+1), r.BlockNumber)
		require.Equal(t, uint64(i), r.Nonce)
	}

	page := domain.NewPage(2, 2)
	receipts, err = svc.node.ListReceipts(ctx, &page)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	require.Equal(t, uint64(3), receipts[0].BlockNumber)
}

func TestMockAggregator(t *testing.T) {
	svc := newServices(t, application.NodeConfig{})

	result, err := svc.deploySvc.Deploy(ctx, []string{application.DeployTagMocks})
	require.NoError(t, err)
	require.Len(t, result.Deployments, 1)
	aggregator := result.Deployments[0].Address

	call := func(method string, args ...string) (interface{}, error) {
		return svc.node.Call(ctx, application.CallRequest{
			To:     aggregator,
			Method: method,
			Args:   args,
		})
	}

	decimals, err := call(application.MethodDecimals)
	require.NoError(t, err)
	require.Equal(t, uint8(domain.DefaultMockDecimals), decimals)

	description, err := call(application.MethodDescription)
	require.NoError(t, err)
	require.Equal(t, domain.AggregatorDescription, description)

	version, err := call(application.MethodVersion)
	require.NoError(t, err)
	require.Equal(t, uint64(domain.AggregatorVersion), version)

	res, err := call(application.MethodLatestRoundData)
	require.NoError(t, err)
	round := res.(domain.RoundData)
	require.Equal(t, uint64(1), round.RoundID)
	require.Equal(t, "200000000000", round.Answer.String())

	receipt, err := svc.node.SendTransaction(ctx, application.TxRequest{
		From:   svc.deployer,
		To:     aggregator,
		Method: application.MethodUpdateAnswer,
		Args:   []string{"185000000000"},
	})
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 2)
	require.Equal(t, application.EventAnswerUpdated, receipt.Logs[0].Event)
	require.Equal(t, application.EventNewRound, receipt.Logs[1].Event)

	res, err = call(application.MethodLatestRoundData)
	require.NoError(t, err)
	round = res.(domain.RoundData)
	require.Equal(t, uint64(2), round.RoundID)
	require.Equal(t, "185000000000", round.Answer.String())

	_, err = svc.node.SendTransaction(ctx, application.TxRequest{
		From:   svc.deployer,
		To:     aggregator,
		Method: application.MethodUpdateRoundData,
		Args:   []string{"10", "-1", "1700000000", "1699999999"},
	})
	require.NoError(t, err)

	res, err = call(application.MethodGetRoundData, "10")
	require.NoError(t, err)
	round = res.(domain.RoundData)
	require.Equal(t, "-1", round.Answer.String())
	require.Equal(t, int64(1700000000), round.UpdatedAt)
	require.Equal(t, int64(1699999999), round.StartedAt)

	res, err = call(application.MethodGetRoundData, "1")
	require.NoError(t, err)
	require.Equal(t, "200000000000", res.(domain.RoundData).Answer.String())

	_, err = call(application.MethodGetRoundData, "5")
	require.ErrorIs(t, err, domain.ErrRoundNotFound)

	_, err = call("latestAnswer")
	require.ErrorIs(t, err, application.ErrUnknownMethod)

	_, err = svc.node.SendTransaction(ctx, application.TxRequest{
		From:  svc.deployer,
		To:    aggregator,
		Value: sendValue,
	})
	require.ErrorIs(t, err, application.ErrNonPayable)
}

func TestDeployContract(t *testing.T) {
	svc := newServices(t, application.NodeConfig{})

	tests := []struct {
		name        string
		req         application.DeployRequest
		expectedErr error
	}{
		{
			name: "unknown contract",
			req: application.DeployRequest{
				From:     svc.deployer,
				Contract: "ERC20",
			},
			expectedErr: application.ErrUnknownContract,
		},
		{
			name: "FundMe with invalid price feed",
			req: application.DeployRequest{
				From:     svc.deployer,
				Contract: domain.ContractFundMe,
				Args:     []string{"feed"},
			},
			expectedErr: application.ErrInvalidArgs,
		},
		{
			name: "aggregator with missing args",
			req: application.DeployRequest{
				From:     svc.deployer,
				Contract: domain.ContractMockV3Aggregator,
				Args:     []string{"8"},
			},
			expectedErr: application.ErrInvalidArgs,
		},
		{
			name: "aggregator with too many decimals",
			req: application.DeployRequest{
				From:     svc.deployer,
				Contract: domain.ContractMockV3Aggregator,
				Args:     []string{"37", "1"},
			},
			expectedErr: domain.ErrInvalidDecimals,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := svc.node.DeployContract(ctx, tt.req)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, receipt)
		})
	}

	receipt, err := svc.node.DeployContract(ctx, application.DeployRequest{
		From:     svc.deployer,
		Contract: domain.ContractMockV3Aggregator,
		Args:     []string{"8", "200000000000"},
	})
	require.NoError(t, err)
	require.True(t, receipt.IsContractCreation())
	require.Greater(t, receipt.GasUsed, params.TxGasContractCreation)

	// FundMe can point to a feed that is not bound yet, funding reverts until
	// it is.
	feedAddress := common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")
	receipt, err = svc.node.DeployContract(ctx, application.DeployRequest{
		From:     svc.deployer,
		Contract: domain.ContractFundMe,
		Args:     []string{feedAddress.Hex()},
	})
	require.NoError(t, err)
	require.True(t, receipt.IsContractCreation())

	_, err = svc.node.SendTransaction(ctx, application.TxRequest{
		From:   svc.signers[1],
		To:     receipt.ContractAddress,
		Value:  sendValue,
		Method: application.MethodFund,
	})
	require.ErrorIs(t, err, application.ErrMissingPriceFeed)

	_, err = svc.node.Call(ctx, application.CallRequest{
		To:     common.HexToAddress("0x01"),
		Method: application.MethodDecimals,
	})
	require.ErrorIs(t, err, application.ErrContractNotFound)
}
