package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector keeps in-process request counters plus named domain counters
// (records computed, tasks imported). It resets on restart.
type Collector struct {
	started         time.Time
	totalRequests   uint64
	clientErrors    uint64
	serverErrors    uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu       sync.Mutex
	counters map[string]uint64
}

func New() *Collector {
	return &Collector{started: time.Now(), counters: map[string]uint64{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status == 429:
		atomic.AddUint64(&c.rateLimited, 1)
		atomic.AddUint64(&c.clientErrors, 1)
	case status >= 500:
		atomic.AddUint64(&c.serverErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// Add increments a named counter. A nil collector is a no-op so services can
// run without metrics in tests.
func (c *Collector) Add(name string, delta int) {
	if c == nil || delta <= 0 {
		return
	}
	c.mu.Lock()
	c.counters[name] += uint64(delta)
	c.mu.Unlock()
}

type Snapshot struct {
	UptimeSeconds    int64             `json:"uptimeSeconds"`
	RequestsTotal    uint64            `json:"requestsTotal"`
	ClientErrors     uint64            `json:"clientErrorsTotal"`
	ServerErrors     uint64            `json:"serverErrorsTotal"`
	RateLimitedTotal uint64            `json:"rateLimitedTotal"`
	AvgDurationMs    float64           `json:"avgDurationMs"`
	Counters         map[string]uint64 `json:"counters"`
}

func (c *Collector) Snapshot() Snapshot {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	counters := make(map[string]uint64, len(c.counters))
	for name, value := range c.counters {
		counters[name] = value
	}
	c.mu.Unlock()

	return Snapshot{
		UptimeSeconds:    int64(time.Since(c.started).Seconds()),
		RequestsTotal:    total,
		ClientErrors:     atomic.LoadUint64(&c.clientErrors),
		ServerErrors:     atomic.LoadUint64(&c.serverErrors),
		RateLimitedTotal: atomic.LoadUint64(&c.rateLimited),
		AvgDurationMs:    avg,
		Counters:         counters,
	}
}
