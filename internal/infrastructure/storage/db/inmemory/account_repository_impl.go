package inmemory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

type AccountRepositoryImpl struct {
	accounts map[common.Address]domain.Account
	lock     *sync.RWMutex
}

// NewAccountRepositoryImpl returns a new empty in-memory AccountRepository.
func NewAccountRepositoryImpl() *AccountRepositoryImpl {
	return &AccountRepositoryImpl{
		accounts: make(map[common.Address]domain.Account),
		lock:     &sync.RWMutex{},
	}
}

func (r *AccountRepositoryImpl) AddAccounts(
	_ context.Context, accounts []*domain.Account,
) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	count := 0
	for _, acc := range accounts {
		if _, ok := r.accounts[acc.Address]; ok {
			continue
		}
		r.accounts[acc.Address] = copyAccount(*acc)
		count++
	}
	return count, nil
}

func (r *AccountRepositoryImpl) GetAccount(
	_ context.Context, address common.Address,
) (*domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getAccount(address), nil
}

func (r *AccountRepositoryImpl) GetAllAccounts(
	_ context.Context,
) ([]domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		accounts = append(accounts, copyAccount(acc))
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i].Address[:], accounts[j].Address[:]) < 0
	})
	return accounts, nil
}

func (r *AccountRepositoryImpl) UpdateAccount(
	_ context.Context,
	address common.Address,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	updatedAccount, err := updateFn(r.getAccount(address))
	if err != nil {
		return err
	}

	r.accounts[address] = copyAccount(*updatedAccount)
	return nil
}

func (r *AccountRepositoryImpl) getAccount(
	address common.Address,
) *domain.Account {
	acc, ok := r.accounts[address]
	if !ok {
		return domain.NewAccount(address, nil)
	}
	a := copyAccount(acc)
	return &a
}

func (r *AccountRepositoryImpl) snapshot() func() {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accounts := make(map[common.Address]domain.Account, len(r.accounts))
	for addr, a := range r.accounts {
		accounts[addr] = copyAccount(a)
	}

	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.accounts = accounts
	}
}
