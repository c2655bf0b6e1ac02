package inmemory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

type ReceiptRepositoryImpl struct {
	receipts      map[common.Hash]domain.Receipt
	receiptsOrder []common.Hash
	lock          *sync.RWMutex
}

// NewReceiptRepositoryImpl returns a new empty in-memory ReceiptRepository.
func NewReceiptRepositoryImpl() *ReceiptRepositoryImpl {
	return &ReceiptRepositoryImpl{
		receipts:      make(map[common.Hash]domain.Receipt),
		receiptsOrder: make([]common.Hash, 0),
		lock:          &sync.RWMutex{},
	}
}

func (r *ReceiptRepositoryImpl) AddReceipt(
	_ context.Context, receipt *domain.Receipt,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.receipts[receipt.TxHash]; ok {
		return ErrReceiptAlreadyExists
	}
	r.receipts[receipt.TxHash] = copyReceipt(*receipt)
	r.receiptsOrder = append(r.receiptsOrder, receipt.TxHash)
	return nil
}

func (r *ReceiptRepositoryImpl) GetReceipt(
	_ context.Context, txHash common.Hash,
) (*domain.Receipt, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	receipt, ok := r.receipts[txHash]
	if !ok {
		return nil, domain.ErrReceiptNotFound
	}
	rr := copyReceipt(receipt)
	return &rr, nil
}

func (r *ReceiptRepositoryImpl) GetAllReceipts(
	_ context.Context, page *domain.Page,
) ([]domain.Receipt, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	start, end := 0, len(r.receiptsOrder)
	if page != nil {
		start, end = page.Bounds(len(r.receiptsOrder))
	}

	receipts := make([]domain.Receipt, 0, end-start)
	for _, txHash := range r.receiptsOrder[start:end] {
		receipts = append(receipts, copyReceipt(r.receipts[txHash]))
	}
	return receipts, nil
}

func (r *ReceiptRepositoryImpl) GetBlockNumber(_ context.Context) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if len(r.receiptsOrder) <= 0 {
		return 0, nil
	}
	latest := r.receiptsOrder[len(r.receiptsOrder)-1]
	return r.receipts[latest].BlockNumber, nil
}

func (r *ReceiptRepositoryImpl) snapshot() func() {
	r.lock.RLock()
	defer r.lock.RUnlock()

	// Receipts are immutable once added, a shallow copy is enough.
	receipts := make(map[common.Hash]domain.Receipt, len(r.receipts))
	for hash, receipt := range r.receipts {
		receipts[hash] = receipt
	}
	order := make([]common.Hash, len(r.receiptsOrder))
	copy(order, r.receiptsOrder)

	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.receipts = receipts
		r.receiptsOrder = order
	}
}
