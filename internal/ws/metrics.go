package ws

import "github.com/prometheus/client_golang/prometheus"

var wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connections",
	Help: "Open task event websocket connections",
})

func init() {
	prometheus.MustRegister(wsConnections)
}
