package krakenfeeder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnsubscribeMessages(t *testing.T) {
	msgs := exchange{}.UnsubscribeMessages([]string{"ETH/USD"})
	require.Len(t, msgs, 1)

	buf, err := json.Marshal(msgs[0])
	require.NoError(t, err)
	require.JSONEq(t,
		`{"event":"unsubscribe","pair":["ETH/USD"],"subscription":{"name":"ticker"}}`,
		string(buf),
	)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		ticker string
		price  string
		ok     bool
	}{
		{"ticker", `[42,{"c":["1850.12000","0.10000000"]},"ticker","ETH/USD"]`, "ETH/USD", "1850.12", true},
		{"status", `{"event":"subscriptionStatus","status":"subscribed","pair":"ETH/USD"}`, "", "", false},
		{"heartbeat", `{"event":"heartbeat"}`, "", "", false},
		{"other channel", `[42,{"c":["1850.1","1"]},"spread","ETH/USD"]`, "", "", false},
		{"missing close", `[42,{"a":["1850.1"]},"ticker","ETH/USD"]`, "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ticker, price, ok := exchange{}.ParsePrice([]byte(tt.msg))
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.Equal(t, tt.ticker, ticker)
			require.Equal(t, tt.price, price.String())
		})
	}
}
