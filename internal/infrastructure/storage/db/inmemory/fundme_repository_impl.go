package inmemory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

type FundMeRepositoryImpl struct {
	fundMes map[common.Address]domain.FundMe
	lock    *sync.RWMutex
}

// NewFundMeRepositoryImpl returns a new empty in-memory FundMeRepository.
func NewFundMeRepositoryImpl() *FundMeRepositoryImpl {
	return &FundMeRepositoryImpl{
		fundMes: make(map[common.Address]domain.FundMe),
		lock:    &sync.RWMutex{},
	}
}

func (r *FundMeRepositoryImpl) AddFundMe(
	_ context.Context, fundMe *domain.FundMe,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.fundMes[fundMe.Address]; ok {
		return ErrFundMeAlreadyExists
	}
	r.fundMes[fundMe.Address] = copyFundMe(*fundMe)
	return nil
}

func (r *FundMeRepositoryImpl) GetFundMe(
	_ context.Context, address common.Address,
) (*domain.FundMe, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getFundMe(address)
}

func (r *FundMeRepositoryImpl) UpdateFundMe(
	_ context.Context,
	address common.Address,
	updateFn func(f *domain.FundMe) (*domain.FundMe, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	fundMe, err := r.getFundMe(address)
	if err != nil {
		return err
	}

	updatedFundMe, err := updateFn(fundMe)
	if err != nil {
		return err
	}

	r.fundMes[address] = copyFundMe(*updatedFundMe)
	return nil
}

func (r *FundMeRepositoryImpl) getFundMe(
	address common.Address,
) (*domain.FundMe, error) {
	fundMe, ok := r.fundMes[address]
	if !ok {
		return nil, domain.ErrFundMeNotFound
	}
	f := copyFundMe(fundMe)
	return &f, nil
}

func (r *FundMeRepositoryImpl) snapshot() func() {
	r.lock.RLock()
	defer r.lock.RUnlock()

	fundMes := make(map[common.Address]domain.FundMe, len(r.fundMes))
	for addr, f := range r.fundMes {
		fundMes[addr] = copyFundMe(f)
	}

	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.fundMes = fundMes
	}
}
