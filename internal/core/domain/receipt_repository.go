package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ReceiptRepository is the abstraction for any kind of database intended to
// persist the receipts of mined transactions.
type ReceiptRepository interface {
	// AddReceipt adds a new receipt to the repository.
	AddReceipt(ctx context.Context, receipt *Receipt) error
	// GetReceipt returns the receipt of the transaction with the given hash.
	GetReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
	// GetAllReceipts returns the receipts in mining order. If page is nil all
	// receipts are returned.
	GetAllReceipts(ctx context.Context, page *Page) ([]Receipt, error)
	// GetBlockNumber returns the block number of the latest receipt, 0 if
	// none has been mined yet.
	GetBlockNumber(ctx context.Context) (uint64, error)
}
