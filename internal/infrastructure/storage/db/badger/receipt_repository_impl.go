package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type receiptRepositoryImpl struct {
	store *badgerhold.Store
}

// NewReceiptRepositoryImpl returns a badger implementation of
// domain.ReceiptRepository.
func NewReceiptRepositoryImpl(store *badgerhold.Store) domain.ReceiptRepository {
	return receiptRepositoryImpl{store}
}

func (r receiptRepositoryImpl) AddReceipt(
	ctx context.Context, receipt *domain.Receipt,
) error {
	rr := fromDomainReceipt(*receipt)
	if err := insert(ctx, r.store, rr.TxHash, rr); err != nil {
		if err == badgerhold.ErrKeyExists {
			return ErrReceiptAlreadyExists
		}
		return err
	}
	return nil
}

func (r receiptRepositoryImpl) GetReceipt(
	ctx context.Context, txHash common.Hash,
) (*domain.Receipt, error) {
	var rr Receipt
	if err := get(ctx, r.store, txHash.Hex(), &rr); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}
	return rr.toDomain()
}

func (r receiptRepositoryImpl) GetAllReceipts(
	ctx context.Context, page *domain.Page,
) ([]domain.Receipt, error) {
	query := (&badgerhold.Query{}).SortBy("BlockNumber")
	if page != nil {
		query = query.Skip(page.Offset()).Limit(page.Size)
	}

	return r.findReceipts(ctx, query)
}

func (r receiptRepositoryImpl) GetBlockNumber(ctx context.Context) (uint64, error) {
	query := (&badgerhold.Query{}).SortBy("BlockNumber").Reverse().Limit(1)
	receipts, err := r.findReceipts(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(receipts) <= 0 {
		return 0, nil
	}
	return receipts[0].BlockNumber, nil
}

func (r receiptRepositoryImpl) findReceipts(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Receipt, error) {
	var receipts []Receipt
	if err := find(ctx, r.store, &receipts, query); err != nil {
		return nil, err
	}

	res := make([]domain.Receipt, 0, len(receipts))
	for _, rr := range receipts {
		receipt, err := rr.toDomain()
		if err != nil {
			return nil, err
		}
		res = append(res, *receipt)
	}
	return res, nil
}
