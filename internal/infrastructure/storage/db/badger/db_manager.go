package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const maxTxConflictRetries = 5

type txKey struct{}

type repoManager struct {
	store *badgerhold.Store

	fundMeRepository     domain.FundMeRepository
	aggregatorRepository domain.AggregatorRepository
	accountRepository    domain.AccountRepository
	receiptRepository    domain.ReceiptRepository
	deploymentRepository domain.DeploymentRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given datadir. An empty datadir makes the store live in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "chain")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening chain db: %w", err)
	}

	return &repoManager{
		store:                store,
		fundMeRepository:     NewFundMeRepositoryImpl(store),
		aggregatorRepository: NewAggregatorRepositoryImpl(store),
		accountRepository:    NewAccountRepositoryImpl(store),
		receiptRepository:    NewReceiptRepositoryImpl(store),
		deploymentRepository: NewDeploymentRepositoryImpl(store),
	}, nil
}

func (d *repoManager) FundMeRepository() domain.FundMeRepository {
	return d.fundMeRepository
}

func (d *repoManager) AggregatorRepository() domain.AggregatorRepository {
	return d.aggregatorRepository
}

func (d *repoManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *repoManager) ReceiptRepository() domain.ReceiptRepository {
	return d.receiptRepository
}

func (d *repoManager) DeploymentRepository() domain.DeploymentRepository {
	return d.deploymentRepository
}

// RunTransaction runs the handler within a badger transaction carried by the
// context. Read-write transactions that fail to commit because of a conflict
// are retried.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	for attempt := 0; ; attempt++ {
		txn := d.store.Badger().NewTransaction(!readOnly)
		txCtx := context.WithValue(ctx, txKey{}, txn)

		res, err := handler(txCtx)
		if err != nil {
			txn.Discard()
			return nil, err
		}

		if readOnly {
			txn.Discard()
			return res, nil
		}

		if err := txn.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) && attempt < maxTxConflictRetries {
				log.WithField("attempt", attempt).Debug("db transaction conflict, retrying")
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func (d *repoManager) Close() {
	d.store.Close()
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return tx
	}
	return nil
}

func get(
	ctx context.Context, store *badgerhold.Store, key, result interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxGet(tx, key, result)
	}
	return store.Get(key, result)
}

func insert(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxInsert(tx, key, data)
	}
	return store.Insert(key, data)
}

func upsert(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxUpsert(tx, key, data)
	}
	return store.Upsert(key, data)
}

func find(
	ctx context.Context, store *badgerhold.Store,
	result interface{}, query *badgerhold.Query,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxFind(tx, result, query)
	}
	return store.Find(result, query)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
