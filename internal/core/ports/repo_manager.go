package ports

import (
	"context"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

// RepoManager interface defines the methods for fundme, aggregator, account,
// receipt and deployment repositories.
type RepoManager interface {
	FundMeRepository() domain.FundMeRepository
	AggregatorRepository() domain.AggregatorRepository
	AccountRepository() domain.AccountRepository
	ReceiptRepository() domain.ReceiptRepository
	DeploymentRepository() domain.DeploymentRepository

	// RunTransaction executes the handler within a db transaction. The
	// repositories must be used with the context given to the handler to take
	// part in the transaction. If the handler returns an error every change
	// is discarded, otherwise they're all committed at once.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
