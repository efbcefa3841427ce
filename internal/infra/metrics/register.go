package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every collector exported by the service.
const namespace = "bos"

var (
	registerOnce sync.Once
	collectors   []prometheus.Collector
)

// register queues collectors from the init() of each metrics file.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister hands the queued collectors to reg, or to the default
// registerer when none is given. Later calls are no-ops.
func MustRegister(reg ...prometheus.Registerer) {
	registerOnce.Do(func() {
		var r prometheus.Registerer = prometheus.DefaultRegisterer
		if len(reg) > 0 && reg[0] != nil {
			r = reg[0]
		}
		r.MustRegister(collectors...)
	})
}
