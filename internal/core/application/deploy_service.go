package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

const logSeparator = "------------------------------------------------"

// DeployConfig holds the parameters of the deploy scripts.
type DeployConfig struct {
	// Deployer defaults to the first signer of the node.
	Deployer         common.Address
	MockDecimals     uint8
	MockInitialPrice *big.Int
	// PriceFeedAddress overrides the ETH/USD price feed of a live network.
	PriceFeedAddress common.Address
}

// DeployService deploys the contracts in the order given by their tags and
// keeps track of them by name. Deploying twice with the same arguments reuses
// the existing contracts.
type DeployService interface {
	Deploy(ctx context.Context, tags []string) (*DeployResult, error)
	GetDeployment(ctx context.Context, name string) (*domain.Deployment, error)
	ListDeployments(ctx context.Context) ([]domain.Deployment, error)
	// GetFundMeAddress returns the address of the deployed FundMe.
	GetFundMeAddress(ctx context.Context) (common.Address, error)
}

type deployService struct {
	node        NodeService
	repoManager ports.RepoManager
	cfg         DeployConfig
}

func NewDeployService(
	node NodeService, repoManager ports.RepoManager, cfg DeployConfig,
) DeployService {
	if cfg.Deployer == (common.Address{}) {
		if signers := node.Signers(); len(signers) > 0 {
			cfg.Deployer = signers[0]
		}
	}
	if cfg.MockDecimals == 0 {
		cfg.MockDecimals = domain.DefaultMockDecimals
	}
	if cfg.MockInitialPrice == nil {
		cfg.MockInitialPrice = big.NewInt(domain.DefaultMockInitialPrice)
	}
	return &deployService{node, repoManager, cfg}
}

type deployScript struct {
	tags []string
	run  func(ctx context.Context, result *DeployResult) error
}

func (s *deployService) Deploy(
	ctx context.Context, tags []string,
) (*DeployResult, error) {
	if len(tags) == 0 {
		tags = []string{DeployTagAll}
	}

	scripts := []deployScript{
		{[]string{DeployTagAll, DeployTagMocks}, s.deployMocks},
		{[]string{DeployTagAll, DeployTagFundMe}, s.deployFundMe},
	}

	selected := make([]bool, len(scripts))
	for _, tag := range tags {
		found := false
		for i, script := range scripts {
			if contains(script.tags, tag) {
				selected[i] = true
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDeployTag, tag)
		}
	}

	result := &DeployResult{
		Deployments: make([]domain.Deployment, 0),
		Receipts:    make([]domain.Receipt, 0),
	}
	for i, script := range scripts {
		if !selected[i] {
			continue
		}
		if err := script.run(ctx, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *deployService) GetDeployment(
	ctx context.Context, name string,
) (*domain.Deployment, error) {
	return s.repoManager.DeploymentRepository().GetDeployment(ctx, name)
}

func (s *deployService) ListDeployments(
	ctx context.Context,
) ([]domain.Deployment, error) {
	return s.repoManager.DeploymentRepository().GetAllDeployments(ctx)
}

func (s *deployService) GetFundMeAddress(
	ctx context.Context,
) (common.Address, error) {
	deployment, err := s.GetDeployment(ctx, FundMeDeploymentName)
	if err != nil {
		if errors.Is(err, domain.ErrDeploymentNotFound) {
			return common.Address{}, ErrFundMeNotDeployed
		}
		return common.Address{}, err
	}
	return deployment.Address, nil
}

func (s *deployService) deployMocks(
	ctx context.Context, result *DeployResult,
) error {
	network := s.node.Network()
	if !network.IsDevelopmentChain() {
		return nil
	}

	log.Info("Local network detected! Deploying mocks...")
	deployment, err := s.deploy(
		ctx, result, MockV3AggregatorDeploymentName,
		domain.ContractMockV3Aggregator,
		[]string{
			fmt.Sprint(s.cfg.MockDecimals), s.cfg.MockInitialPrice.String(),
		},
		[]string{DeployTagAll, DeployTagMocks},
	)
	if err != nil {
		return err
	}
	log.Info("Mocks Deployed!")
	log.Info(logSeparator)
	log.Infof(
		"You are deploying to a local network, mock price feed at %s",
		deployment.Address.Hex(),
	)
	log.Info(logSeparator)
	return nil
}

func (s *deployService) deployFundMe(
	ctx context.Context, result *DeployResult,
) error {
	priceFeed, err := s.priceFeedAddress(ctx)
	if err != nil {
		return err
	}

	deployment, err := s.deploy(
		ctx, result, FundMeDeploymentName, domain.ContractFundMe,
		[]string{priceFeed.Hex()}, []string{DeployTagAll, DeployTagFundMe},
	)
	if err != nil {
		return err
	}

	log.Infof(
		"FundMe deployed at %s with price feed %s, waiting %d block confirmations",
		deployment.Address.Hex(), priceFeed.Hex(),
		s.node.Network().BlockConfirmations(),
	)
	return nil
}

// priceFeedAddress returns the mock aggregator address on development chains,
// the configured or known ETH/USD feed otherwise.
func (s *deployService) priceFeedAddress(
	ctx context.Context,
) (common.Address, error) {
	network := s.node.Network()
	if network.IsDevelopmentChain() {
		mock, err := s.GetDeployment(ctx, MockV3AggregatorDeploymentName)
		if err != nil {
			if errors.Is(err, domain.ErrDeploymentNotFound) {
				return common.Address{}, fmt.Errorf(
					"%w: deploy mocks first", ErrMissingPriceFeed,
				)
			}
			return common.Address{}, err
		}
		return mock.Address, nil
	}

	if s.cfg.PriceFeedAddress != (common.Address{}) {
		return s.cfg.PriceFeedAddress, nil
	}
	cfg, err := network.Config()
	if err != nil {
		return common.Address{}, fmt.Errorf(
			"%w for network %s", ErrMissingPriceFeed, network.Name,
		)
	}
	return cfg.EthUsdPriceFeed, nil
}

// deploy deploys the contract unless a deployment with the same name and args
// already exists.
func (s *deployService) deploy(
	ctx context.Context, result *DeployResult, name string,
	kind domain.ContractKind, args, tags []string,
) (*domain.Deployment, error) {
	deploymentRepo := s.repoManager.DeploymentRepository()

	existing, err := deploymentRepo.GetDeployment(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrDeploymentNotFound) {
		return nil, err
	}
	if existing != nil && existing.Contract == kind && existing.HasSameArgs(args) {
		log.Infof(
			"reusing \"%s\" at %s", name, existing.Address.Hex(),
		)
		result.Deployments = append(result.Deployments, *existing)
		return existing, nil
	}

	receipt, err := s.node.DeployContract(ctx, DeployRequest{
		From:     s.cfg.Deployer,
		Contract: kind,
		Args:     args,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", name, err)
	}

	deployment := &domain.Deployment{
		Name:     name,
		Contract: kind,
		Address:  receipt.ContractAddress,
		Deployer: receipt.From,
		Args:     args,
		TxHash:   receipt.TxHash,
		Tags:     tags,
		Network:  s.node.Network().Name,
	}
	if err := deploymentRepo.AddDeployment(ctx, deployment); err != nil {
		return nil, err
	}

	log.Infof(
		"deployed \"%s\" (tx: %s) at %s with %d gas",
		name, receipt.TxHash.Hex(), receipt.ContractAddress.Hex(),
		receipt.GasUsed,
	)
	result.Deployments = append(result.Deployments, *deployment)
	result.Receipts = append(result.Receipts, *receipt)
	return deployment, nil
}

func contains(list []string, item string) bool {
	for _, l := range list {
		if l == item {
			return true
		}
	}
	return false
}
