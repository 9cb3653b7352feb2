package resolvers

import (
	"sync"
	"sync/atomic"

	"github.com/jroosing/hydrawhois/internal/helpers"
	"github.com/jroosing/hydrawhois/internal/whois"
)

// Stats collects WHOIS client statistics.
// All methods are safe for concurrent use and on a nil receiver.
type Stats struct {
	resolutions    atomic.Uint64
	hops           atomic.Uint64
	referrals      atomic.Uint64
	noReferrals    atomic.Uint64
	bytesRead      atomic.Uint64
	latencyTotalNs atomic.Uint64

	mu     sync.Mutex
	errors map[whois.Kind]uint64
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{errors: map[whois.Kind]uint64{}}
}

func (s *Stats) recordResolution() {
	if s == nil {
		return
	}
	s.resolutions.Add(1)
}

func (s *Stats) recordReferral() {
	if s == nil {
		return
	}
	s.referrals.Add(1)
}

func (s *Stats) recordNoReferral() {
	if s == nil {
		return
	}
	s.noReferrals.Add(1)
}

func (s *Stats) recordHop(h Hop) {
	if s == nil {
		return
	}
	s.hops.Add(1)
	s.bytesRead.Add(helpers.NonNegativeUint64(int64(h.Bytes)))
	s.latencyTotalNs.Add(helpers.NonNegativeUint64(h.Duration.Nanoseconds()))
}

func (s *Stats) recordError(err error) {
	if s == nil || err == nil {
		return
	}
	kind := whois.KindOf(err)
	s.mu.Lock()
	if s.errors == nil {
		s.errors = map[whois.Kind]uint64{}
	}
	s.errors[kind]++
	s.mu.Unlock()
}

// StatsSnapshot is a point-in-time snapshot of client statistics.
type StatsSnapshot struct {
	Resolutions     uint64            `json:"resolutions"`
	Hops            uint64            `json:"hops"`
	Referrals       uint64            `json:"referrals"`
	NoReferrals     uint64            `json:"no_referrals"`
	BytesRead       uint64            `json:"bytes_read"`
	AvgHopLatencyMs float64           `json:"avg_hop_latency_ms"`
	Errors          map[string]uint64 `json:"errors"`
}

// Snapshot returns the current statistics. Errors are keyed by whois.Kind name.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{Errors: map[string]uint64{}}
	}
	hops := s.hops.Load()
	latencyNs := s.latencyTotalNs.Load()

	avg := 0.0
	if hops > 0 {
		avg = float64(latencyNs) / float64(hops) / 1e6
	}

	errs := map[string]uint64{}
	s.mu.Lock()
	for k, n := range s.errors {
		errs[k.String()] = n
	}
	s.mu.Unlock()

	return StatsSnapshot{
		Resolutions:     s.resolutions.Load(),
		Hops:            hops,
		Referrals:       s.referrals.Load(),
		NoReferrals:     s.noReferrals.Load(),
		BytesRead:       s.bytesRead.Load(),
		AvgHopLatencyMs: avg,
		Errors:          errs,
	}
}
