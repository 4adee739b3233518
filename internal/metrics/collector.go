package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Collector accumulates gateway metrics and renders them in Prometheus
// text exposition format.
type Collector struct {
	mu sync.RWMutex

	requestCounter   map[string]int64     // method:path:status
	requestDurations map[string][]float64 // method:path -> seconds

	orderOutcomes map[string]int64 // accepted / rejected:<kind> / failed

	startTime time.Time
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		requestCounter:   make(map[string]int64),
		requestDurations: make(map[string][]float64),
		orderOutcomes:    make(map[string]int64),
		startTime:        time.Now(),
	}
}

// RecordHTTPRequest counts one handled HTTP request
func (c *Collector) RecordHTTPRequest(method, path string, status int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := fmt.Sprintf("%s:%s:%d", method, path, status)
	c.requestCounter[key]++
}

// RecordHTTPDuration records one request duration in seconds
func (c *Collector) RecordHTTPDuration(method, path string, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := fmt.Sprintf("%s:%s", method, path)
	c.requestDurations[key] = append(c.requestDurations[key], seconds)
}

// RecordOrderOutcome counts one create-order result. Outcome is
// "accepted", "rejected:<kind>" or "failed".
func (c *Collector) RecordOrderOutcome(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orderOutcomes[outcome]++
}

// Uptime returns time since the collector was created
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Render produces the Prometheus text exposition of all metrics
func (c *Collector) Render() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP gateway_http_requests_total Total HTTP requests handled\n")
	b.WriteString("# TYPE gateway_http_requests_total counter\n")
	for _, key := range sortedKeys(c.requestCounter) {
		parts := strings.SplitN(key, ":", 3)
		fmt.Fprintf(&b, "gateway_http_requests_total{method=%q,path=%q,status=%q} %d\n",
			parts[0], parts[1], parts[2], c.requestCounter[key])
	}

	b.WriteString("# HELP gateway_http_request_duration_seconds HTTP request latency summary\n")
	b.WriteString("# TYPE gateway_http_request_duration_seconds summary\n")
	for key, durations := range c.requestDurations {
		parts := strings.SplitN(key, ":", 2)
		var sum float64
		for _, d := range durations {
			sum += d
		}
		fmt.Fprintf(&b, "gateway_http_request_duration_seconds_sum{method=%q,path=%q} %f\n",
			parts[0], parts[1], sum)
		fmt.Fprintf(&b, "gateway_http_request_duration_seconds_count{method=%q,path=%q} %d\n",
			parts[0], parts[1], len(durations))
	}

	b.WriteString("# HELP gateway_order_outcomes_total Create-order results by outcome\n")
	b.WriteString("# TYPE gateway_order_outcomes_total counter\n")
	for _, key := range sortedKeys(c.orderOutcomes) {
		fmt.Fprintf(&b, "gateway_order_outcomes_total{outcome=%q} %d\n", key, c.orderOutcomes[key])
	}

	fmt.Fprintf(&b, "# HELP gateway_uptime_seconds Seconds since process start\n")
	fmt.Fprintf(&b, "# TYPE gateway_uptime_seconds gauge\n")
	fmt.Fprintf(&b, "gateway_uptime_seconds %f\n", time.Since(c.startTime).Seconds())

	return b.String()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
