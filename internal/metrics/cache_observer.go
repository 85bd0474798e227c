package metrics

import "github.com/booky10/modrinth-downloader/cache"

// Ensure CacheObserver implements cache.Observer
var _ cache.Observer = (*CacheObserver)(nil)

// CacheObserver reports the events of one named cache to Prometheus.
type CacheObserver struct {
	name string
}

// NewCacheObserver creates an observer labelling every series with name
func NewCacheObserver(name string) *CacheObserver {
	return &CacheObserver{name: name}
}

func (o *CacheObserver) Hit() {
	CacheHits.WithLabelValues(o.name).Inc()
}

func (o *CacheObserver) Miss() {
	CacheMisses.WithLabelValues(o.name).Inc()
}

func (o *CacheObserver) Loaded(present bool, err error) {
	result := "absent"
	switch {
	case err != nil:
		result = "error"
	case present:
		result = "present"
	}
	CacheLoads.WithLabelValues(o.name, result).Inc()
}

func (o *CacheObserver) Swept(removed int) {
	if removed > 0 {
		CacheSweptEntries.WithLabelValues(o.name).Add(float64(removed))
	}
}
