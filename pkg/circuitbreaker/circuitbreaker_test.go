package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/pkg/circuitbreaker"
)

var errRequest = errors.New("request failed")

func failing() (interface{}, error) {
	return nil, errRequest
}

func succeeding() (interface{}, error) {
	return "ok", nil
}

func TestBreakers(t *testing.T) {
	breakers := circuitbreaker.NewBreakers()

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := breakers.Execute("failing", failing)
		require.ErrorIs(t, err, errRequest)
	}
	require.Equal(t, gobreaker.StateOpen, breakers.Get("failing").State())

	_, err := breakers.Execute("failing", succeeding)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	res, err := breakers.Execute("other", succeeding)
	require.NoError(t, err)
	require.Equal(t, "ok", res)
	require.Equal(t, gobreaker.StateClosed, breakers.Get("other").State())
}

func TestBreakerDoesNotTripBelowRatio(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("mixed")

	for i := 0; i < 2*circuitbreaker.MaxNumOfFailingRequests; i++ {
		req := succeeding
		if i%2 == 0 {
			req = failing
		}
		//nolint
		cb.Execute(req)
	}
	require.Equal(t, gobreaker.StateClosed, cb.State())
}
