package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAccountRepositoryImpl returns a badger implementation of
// domain.AccountRepository.
func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return accountRepositoryImpl{store}
}

func (r accountRepositoryImpl) AddAccounts(
	ctx context.Context, accounts []*domain.Account,
) (int, error) {
	count := 0
	for _, acc := range accounts {
		a := fromDomainAccount(*acc)
		if err := insert(ctx, r.store, a.Address, a); err != nil {
			if err == badgerhold.ErrKeyExists {
				continue
			}
			return -1, err
		}
		count++
	}
	return count, nil
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, address common.Address,
) (*domain.Account, error) {
	var a Account
	if err := get(ctx, r.store, address.Hex(), &a); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.NewAccount(address, nil), nil
		}
		return nil, err
	}
	return a.toDomain()
}

func (r accountRepositoryImpl) GetAllAccounts(
	ctx context.Context,
) ([]domain.Account, error) {
	var accounts []Account
	query := (&badgerhold.Query{}).SortBy("Address")
	if err := find(ctx, r.store, &accounts, query); err != nil {
		return nil, err
	}

	res := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		acc, err := a.toDomain()
		if err != nil {
			return nil, err
		}
		res = append(res, *acc)
	}
	return res, nil
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address common.Address,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	account, err := r.GetAccount(ctx, address)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}

	a := fromDomainAccount(*updatedAccount)
	return upsert(ctx, r.store, a.Address, a)
}
