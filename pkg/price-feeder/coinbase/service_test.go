package coinbasefeeder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribeMessages(t *testing.T) {
	msgs := exchange{}.SubscribeMessages([]string{"ETH-USD"})
	require.Len(t, msgs, 1)

	buf, err := json.Marshal(msgs[0])
	require.NoError(t, err)
	require.JSONEq(t,
		`{"type":"subscribe","product_ids":["ETH-USD"],"channels":["heartbeat","ticker"]}`,
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
		{"ticker", `{"type":"ticker","product_id":"ETH-USD","price":"1850.12"}`, "ETH-USD", "1850.12", true},
		{"heartbeat", `{"type":"heartbeat","product_id":"ETH-USD"}`, "", "", false},
		{"subscriptions", `{"type":"subscriptions","channels":[]}`, "", "", false},
		{"bad price", `{"type":"ticker","product_id":"ETH-USD","price":"abc"}`, "", "", false},
		{"not json", `hello`, "", "", false},
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
