package metrics

//go:generate mockgen -destination=../mocks/metrics.go -package=mocks github.com/pushchain/relayer-price-oracle/priceOracle/metrics Reporter

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Reporter is what the oracle's processes report to.
type Reporter interface {
	ReportPricePolling(status string)
	ReportPriceUpdate(chainID types.ChainID, status string)
	ReportPriceUpdateGas(chainName string, gasUsed uint64)
	ReportProviderPrice(token string, price float64)
	ReportContractPrice(chainName string, isGasPrice bool, price float64)
}

// Exporter holds the oracle metrics on its own registry.
type Exporter struct {
	registry *prometheus.Registry

	pricePolling   *prometheus.CounterVec
	priceUpdates   *prometheus.CounterVec
	updateGasCost  *prometheus.GaugeVec
	providerPrices *prometheus.GaugeVec
	contractPrices *prometheus.GaugeVec
}

var _ Reporter = (*Exporter)(nil)

// NewExporter creates and registers all metrics. Go runtime and process
// collectors are added when withRuntime is set.
func NewExporter(withRuntime bool) *Exporter {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Exporter{
		registry: reg,
		pricePolling: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "price_polling_total",
			Help: "Number of price snapshot fetches, by outcome.",
		}, []string{"status"}),
		priceUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "price_updates_total",
			Help: "Number of price update transactions, by home chain and outcome.",
		}, []string{"chain_id", "status"}),
		updateGasCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "price_update_gas_cost",
			Help: "Cumulative gas used by price update transactions.",
		}, []string{"chain_name"}),
		providerPrices: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "price_provider_prices",
			Help: "Latest price quoted by the price source.",
		}, []string{"token"}),
		contractPrices: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "price_contract_prices",
			Help: "Latest price read from or written to a delivery provider.",
		}, []string{"chain_name", "is_gas_price"}),
	}
}

func (e *Exporter) ReportPricePolling(status string) {
	e.pricePolling.WithLabelValues(status).Inc()
}

func (e *Exporter) ReportPriceUpdate(chainID types.ChainID, status string) {
	e.priceUpdates.WithLabelValues(chainID.String(), status).Inc()
}

// ReportPriceUpdateGas adds to the running total for the chain.
func (e *Exporter) ReportPriceUpdateGas(chainName string, gasUsed uint64) {
	e.updateGasCost.WithLabelValues(chainName).Add(float64(gasUsed))
}

func (e *Exporter) ReportProviderPrice(token string, price float64) {
	e.providerPrices.WithLabelValues(token).Set(price)
}

func (e *Exporter) ReportContractPrice(chainName string, isGasPrice bool, price float64) {
	e.contractPrices.WithLabelValues(chainName, strconv.FormatBool(isGasPrice)).Set(price)
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}
