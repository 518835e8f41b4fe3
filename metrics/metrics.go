package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MarketPrimarySalesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_primary_sales_total", Help: "Settled primary sales"},
	)
	MarketTicketsMintedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_tickets_minted_total", Help: "Tickets minted"},
	)
	MarketResalesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_resales_total", Help: "Settled resales"},
	)
	MarketListingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_listings_total", Help: "Listings created"},
	)
	MarketListingsCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_listings_cancelled_total", Help: "Listings cancelled"},
	)
	MarketCheckInsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_check_ins_total", Help: "Tickets checked in"},
	)
	MarketRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_rejections_total", Help: "Rejected operations by error kind"},
		[]string{"kind"},
	)
	MarketSettleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "market_settle_duration_seconds", Help: "Settlement duration", Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}},
		[]string{"op"},
	)
	MarketActiveListings = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "market_active_listings", Help: "Currently active listings"},
	)
	MarketAuditSeq = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "market_audit_seq", Help: "Last written audit sequence"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		MarketPrimarySalesTotal,
		MarketTicketsMintedTotal,
		MarketResalesTotal,
		MarketListingsTotal,
		MarketListingsCancelledTotal,
		MarketCheckInsTotal,
		MarketRejectionsTotal,
		MarketSettleDuration,
		MarketActiveListings,
		MarketAuditSeq,
	)
}

func IncPrimarySale()          { MarketPrimarySalesTotal.Inc() }
func AddTicketsMinted(n int)   { MarketTicketsMintedTotal.Add(float64(n)) }
func IncResale()               { MarketResalesTotal.Inc() }
func IncListing()              { MarketListingsTotal.Inc() }
func IncListingCancelled()     { MarketListingsCancelledTotal.Inc() }
func IncCheckIn()              { MarketCheckInsTotal.Inc() }
func IncRejection(kind string) { MarketRejectionsTotal.WithLabelValues(kind).Inc() }

func ObserveSettle(op string, seconds float64) { MarketSettleDuration.WithLabelValues(op).Observe(seconds) }

func SetActiveListings(n int64) { MarketActiveListings.Set(float64(n)) }

func SetAuditSeq(seq uint64) { MarketAuditSeq.Set(float64(seq)) }
