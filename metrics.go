package atree

import (
	"fmt"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
)

// metricsSet is C10: a private VictoriaMetrics registry scoped to one
// Tree instance, labelled by that tree's instance id so that several
// trees embedded in one process (sharded subscriptions, per spec.md §5)
// report distinguishable series rather than clobbering a single global
// counter.
type metricsSet struct {
	set *metrics.Set

	inserts     *metrics.Counter
	deletes     *metrics.Counter
	searches    *metrics.Counter
	cacheHits   *metrics.Counter
	cacheMisses *metrics.Counter

	liveNodes int64 // read by the atree_nodes_live gauge callback
}

func newMetricsSet(id uuid.UUID) *metricsSet {
	set := metrics.NewSet()
	label := fmt.Sprintf("%q", id.String())

	m := &metricsSet{
		set:         set,
		inserts:     set.NewCounter(`atree_inserts_total{tree=` + label + `}`),
		deletes:     set.NewCounter(`atree_deletes_total{tree=` + label + `}`),
		searches:    set.NewCounter(`atree_searches_total{tree=` + label + `}`),
		cacheHits:   set.NewCounter(`atree_cache_hits_total{tree=` + label + `}`),
		cacheMisses: set.NewCounter(`atree_cache_misses_total{tree=` + label + `}`),
	}
	set.NewGauge(`atree_nodes_live{tree=`+label+`}`, func() float64 {
		return float64(atomic.LoadInt64(&m.liveNodes))
	})

	metrics.RegisterSet(set)
	return m
}

func (m *metricsSet) recordInsert()    { m.inserts.Inc() }
func (m *metricsSet) recordDelete()    { m.deletes.Inc() }
func (m *metricsSet) recordSearch()    { m.searches.Inc() }
func (m *metricsSet) recordCacheHit()  { m.cacheHits.Inc() }
func (m *metricsSet) recordCacheMiss() { m.cacheMisses.Inc() }

func (m *metricsSet) setLiveNodes(n int) {
	atomic.StoreInt64(&m.liveNodes, int64(n))
}
