package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MentionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mentions_total", Help: "Count of sentiment mentions ingested"},
	)
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Count of trade ticks ingested"},
	)
	WindowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "windows_total", Help: "Window boundaries reduced per stream"},
		[]string{"stream"},
	)
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "decisions_total", Help: "Decision evaluations by outcome"},
		[]string{"result"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Order intents submitted"},
		[]string{"side"},
	)
)

func init() {
	prometheus.MustRegister(MentionsTotal, TicksTotal, WindowsTotal, DecisionsTotal, OrdersTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
