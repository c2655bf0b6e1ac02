package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type fundMeRepositoryImpl struct {
	store *badgerhold.Store
}

// NewFundMeRepositoryImpl returns a badger implementation of
// domain.FundMeRepository.
func NewFundMeRepositoryImpl(store *badgerhold.Store) domain.FundMeRepository {
	return fundMeRepositoryImpl{store}
}

func (r fundMeRepositoryImpl) AddFundMe(
	ctx context.Context, fundMe *domain.FundMe,
) error {
	f := fromDomainFundMe(*fundMe)
	if err := insert(ctx, r.store, f.Address, f); err != nil {
		if err == badgerhold.ErrKeyExists {
			return ErrFundMeAlreadyExists
		}
		return err
	}
	return nil
}

func (r fundMeRepositoryImpl) GetFundMe(
	ctx context.Context, address common.Address,
) (*domain.FundMe, error) {
	var f FundMe
	if err := get(ctx, r.store, address.Hex(), &f); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrFundMeNotFound
		}
		return nil, err
	}
	return f.toDomain()
}

func (r fundMeRepositoryImpl) UpdateFundMe(
	ctx context.Context,
	address common.Address,
	updateFn func(f *domain.FundMe) (*domain.FundMe, error),
) error {
	fundMe, err := r.GetFundMe(ctx, address)
	if err != nil {
		return err
	}

	updatedFundMe, err := updateFn(fundMe)
	if err != nil {
		return err
	}

	f := fromDomainFundMe(*updatedFundMe)
	return upsert(ctx, r.store, f.Address, f)
}
