package pubsub

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

func getFundedPayload(event application.FundedEvent) map[string]interface{} {
	return map[string]interface{}{
		"id":           uuid.New().String(),
		"event":        ports.TopicFunded,
		"contract":     event.Contract.Hex(),
		"funder":       event.Funder.Hex(),
		"amount":       event.Amount.String(),
		"amount_eth":   ethunit.FormatEther(event.Amount),
		"balance":      event.Balance.String(),
		"balance_eth":  ethunit.FormatEther(event.Balance),
		"tx_hash":      event.TxHash.Hex(),
		"block_number": event.BlockNumber,
		"timestamp":    event.Timestamp,
		"date":         formatDate(event.Timestamp),
	}
}

func getWithdrawnPayload(event application.WithdrawnEvent) map[string]interface{} {
	return map[string]interface{}{
		"id":           uuid.New().String(),
		"event":        ports.TopicWithdrawn,
		"contract":     event.Contract.Hex(),
		"owner":        event.Owner.Hex(),
		"method":       event.Method,
		"amount":       event.Amount.String(),
		"amount_eth":   ethunit.FormatEther(event.Amount),
		"tx_hash":      event.TxHash.Hex(),
		"block_number": event.BlockNumber,
		"timestamp":    event.Timestamp,
		"date":         formatDate(event.Timestamp),
	}
}

func formatDate(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format(time.RFC3339)
}
