package inmemory

import (
	"context"
	"sync"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

// snapshotter is implemented by every in-memory repository. snapshot returns
// a function that restores the repository to the state it had when snapshot
// was called.
type snapshotter interface {
	snapshot() (restore func())
}

type RepoManager struct {
	fundMeRepository     *FundMeRepositoryImpl
	aggregatorRepository *AggregatorRepositoryImpl
	accountRepository    *AccountRepositoryImpl
	receiptRepository    *ReceiptRepositoryImpl
	deploymentRepository *DeploymentRepositoryImpl

	txLock *sync.RWMutex
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		fundMeRepository:     NewFundMeRepositoryImpl(),
		aggregatorRepository: NewAggregatorRepositoryImpl(),
		accountRepository:    NewAccountRepositoryImpl(),
		receiptRepository:    NewReceiptRepositoryImpl(),
		deploymentRepository: NewDeploymentRepositoryImpl(),
		txLock:               &sync.RWMutex{},
	}
}

func (d *RepoManager) FundMeRepository() domain.FundMeRepository {
	return d.fundMeRepository
}

func (d *RepoManager) AggregatorRepository() domain.AggregatorRepository {
	return d.aggregatorRepository
}

func (d *RepoManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *RepoManager) ReceiptRepository() domain.ReceiptRepository {
	return d.receiptRepository
}

func (d *RepoManager) DeploymentRepository() domain.DeploymentRepository {
	return d.deploymentRepository
}

// RunTransaction serializes the read-write transactions and rolls back all
// repositories to their previous state if the handler fails.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if readOnly {
		d.txLock.RLock()
		defer d.txLock.RUnlock()

		return handler(ctx)
	}

	d.txLock.Lock()
	defer d.txLock.Unlock()

	restoreFns := make([]func(), 0, 5)
	for _, repo := range d.repositories() {
		restoreFns = append(restoreFns, repo.snapshot())
	}

	res, err := handler(ctx)
	if err != nil {
		for _, restore := range restoreFns {
			restore()
		}
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}

func (d *RepoManager) repositories() []snapshotter {
	return []snapshotter{
		d.fundMeRepository,
		d.aggregatorRepository,
		d.accountRepository,
		d.receiptRepository,
		d.deploymentRepository,
	}
}
