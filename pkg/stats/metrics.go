package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fundme"

var (
	transactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_total",
		Help:      "Number of transactions sent to the node, by method and status.",
	}, []string{"method", "status"})

	funded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "funded_ether_total",
		Help:      "Ether received by FundMe since the daemon started.",
	})

	withdrawn = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "withdrawn_ether_total",
		Help:      "Ether withdrawn from FundMe since the daemon started.",
	})

	contractBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "contract_balance_ether",
		Help:      "Current balance of FundMe.",
	})

	numOfFunders = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "funders",
		Help:      "Number of funders since the last withdrawal.",
	})

	ethUsdPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "eth_usd_price",
		Help:      "Latest ETH/USD answer of the price feed used by FundMe.",
	})
)

// RecordTransaction counts a transaction for the given method.
func RecordTransaction(method string, reverted bool) {
	status := "success"
	if reverted {
		status = "reverted"
	}
	if method == "" {
		method = "transfer"
	}
	transactions.WithLabelValues(method, status).Inc()
}

func RecordFunding(ether float64) {
	funded.Add(ether)
}

func RecordWithdrawal(ether float64) {
	withdrawn.Add(ether)
}

func SetContractBalance(ether float64) {
	contractBalance.Set(ether)
}

func SetNumOfFunders(n int) {
	numOfFunders.Set(float64(n))
}

func SetEthUsdPrice(price float64) {
	ethUsdPrice.Set(price)
}
