package pubsub

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

type store struct {
	db   *badgerhold.Store
	done chan struct{}
}

func newStore(baseDbDir string, logger badger.Logger) (*store, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "webhooks")
	}

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

	s := &store{db: db, done: make(chan struct{})}
	if !isInMemory {
		go s.collectGarbage(30 * time.Minute)
	}
	return s, nil
}

func (s *store) collectGarbage(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			err := s.db.Badger().RunValueLogGC(0.5)
			if err == nil || errors.Is(err, badger.ErrNoRewrite) {
				continue
			}
			if errors.Is(err, badger.ErrRejected) {
				return
			}
			log.WithError(err).Warn("webhook db value log gc failed")
		}
	}
}

func (s *store) addWebhook(hook *webhook) error {
	if err := s.db.Insert(hook.ID, hook); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return nil
		}
		return err
	}
	return nil
}

func (s *store) removeWebhook(id string) error {
	if err := s.db.Delete(id, webhook{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ports.ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

// getWebhooksForTopic returns the webhooks registered for topic plus those
// registered for any topic. The unspecified topic matches every webhook.
func (s *store) getWebhooksForTopic(topic string) ([]webhook, error) {
	var query *badgerhold.Query
	switch topic {
	case ports.UnspecifiedTopic:
		query = &badgerhold.Query{}
	case ports.AnyTopic:
		query = badgerhold.Where("Topic").Eq(topic).Index("Topic")
	default:
		query = badgerhold.Where("Topic").In(topic, ports.AnyTopic).Index("Topic")
	}

	hooks := make([]webhook, 0)
	if err := s.db.Find(&hooks, query.SortBy("CreatedAt", "ID")); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (s *store) close() error {
	close(s.done)
	return s.db.Close()
}
