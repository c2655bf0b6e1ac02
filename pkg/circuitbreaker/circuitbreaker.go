package circuitbreaker

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests is the number of requests to exceed before a
	// breaker can trip.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the min ratio of failed requests that trips a breaker.
	FailingRatio = 0.6
	// OpenTimeout is how long a tripped breaker rejects requests before
	// letting one through again.
	OpenTimeout = time.Minute
)

// NewCircuitBreaker returns a breaker that trips once more than
// MaxNumOfFailingRequests requests were made and at least FailingRatio of them
// failed. State changes are logged.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Debugf("circuit breaker %s went from %s to %s", name, from, to)
		},
	})
}

// Breakers holds one breaker per name, so that a failing target does not
// stop requests to the others.
type Breakers struct {
	lock     sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewBreakers() *Breakers {
	return &Breakers{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

// Get returns the breaker for name, creating it if needed.
func (b *Breakers) Get(name string) *gobreaker.CircuitBreaker {
	b.lock.Lock()
	defer b.lock.Unlock()

	cb, ok := b.breakers[name]
	if !ok {
		cb = NewCircuitBreaker(name)
		b.breakers[name] = cb
	}
	return cb
}

// Execute runs req through the breaker for name.
func (b *Breakers) Execute(
	name string, req func() (interface{}, error),
) (interface{}, error) {
	return b.Get(name).Execute(req)
}
