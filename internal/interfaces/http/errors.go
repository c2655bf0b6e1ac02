package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/application/pubsub"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

// ErrBadRequest is returned for malformed request bodies or params.
var ErrBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
	// Reason is the revert reason of a reverted transaction.
	Reason string `json:"reason,omitempty"`
}

func httpStatus(err error) int {
	var revertErr *application.RevertError

	switch {
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, application.ErrNotDevelopmentChain):
		return http.StatusForbidden

	case errors.Is(err, application.ErrFundMeNotDeployed),
		errors.Is(err, application.ErrContractNotFound),
		errors.Is(err, domain.ErrDeploymentNotFound),
		errors.Is(err, domain.ErrReceiptNotFound),
		errors.Is(err, domain.ErrRoundNotFound),
		errors.Is(err, domain.ErrFunderIndexOutOfRange),
		errors.Is(err, ports.ErrSubscriptionNotFound):
		return http.StatusNotFound

	case errors.Is(err, application.ErrMissingPriceFeed),
		errors.Is(err, pubsub.ErrWebhooksDisabled):
		return http.StatusConflict

	case errors.Is(err, ErrBadRequest),
		errors.Is(err, application.ErrInvalidArgs),
		errors.Is(err, application.ErrUnknownMethod),
		errors.Is(err, application.ErrUnknownDeployTag),
		errors.Is(err, application.ErrUnknownContract),
		errors.Is(err, application.ErrGasLimitExceeded),
		errors.Is(err, application.ErrInvalidSender),
		errors.Is(err, application.ErrNonPayable),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, pubsub.ErrInvalidTopic):
		return http.StatusBadRequest

	case errors.As(err, &revertErr),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrOutOfGas):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("internal error")
	}

	res := errorResponse{Error: err.Error()}
	var revertErr *application.RevertError
	if errors.As(err, &revertErr) {
		res.Reason = revertErr.Reason()
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}
