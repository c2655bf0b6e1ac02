package application_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

var (
	ctx = context.Background()

	hardhat = domain.Network{Name: "hardhat", ChainID: domain.DevelopmentChainID}
	sepolia = domain.Network{Name: "sepolia", ChainID: 11155111}

	sendValue = ether("1")
)

type services struct {
	node      application.NodeService
	deploySvc application.DeployService
	fundMeSvc application.FundMeService
	priceSvc  application.PriceService
	publisher *mockPublisher
	signers   []common.Address
	deployer  common.Address
}

func newServices(t *testing.T, cfg application.NodeConfig) *services {
	if cfg.Network.Name == "" {
		cfg.Network = hardhat
	}
	if cfg.NumOfAccounts == 0 {
		cfg.NumOfAccounts = 6
	}

	repoManager := inmemory.NewRepoManager()
	node, err := application.NewNodeService(repoManager, cfg)
	require.NoError(t, err)
	require.NoError(t, node.Init(ctx))

	publisher := &mockPublisher{}
	publisher.On("PublishFundedEvent", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishWithdrawnEvent", mock.Anything, mock.Anything).Return(nil)

	deploySvc := application.NewDeployService(
		node, repoManager, application.DeployConfig{},
	)
	signers := node.Signers()

	return &services{
		node:      node,
		deploySvc: deploySvc,
		fundMeSvc: application.NewFundMeService(node, deploySvc, publisher),
		priceSvc:  application.NewPriceService(node, deploySvc),
		publisher: publisher,
		signers:   signers,
		deployer:  signers[0],
	}
}

// newDeployedServices returns the services of a development chain with the
// mock aggregator and FundMe already deployed.
func newDeployedServices(
	t *testing.T, cfg application.NodeConfig,
) *services {
	svc := newServices(t, cfg)
	_, err := svc.deploySvc.Deploy(ctx, []string{application.DeployTagAll})
	require.NoError(t, err)
	return svc
}

func (s *services) fundMeAddress(t *testing.T) common.Address {
	address, err := s.deploySvc.GetFundMeAddress(ctx)
	require.NoError(t, err)
	return address
}

func (s *services) balance(t *testing.T, address common.Address) *big.Int {
	balance, err := s.node.GetBalance(ctx, address)
	require.NoError(t, err)
	return balance
}

func ether(amount string) *big.Int {
	wei, err := ethunit.ParseEther(amount)
	if err != nil {
		panic(err)
	}
	return wei
}

func add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}
