package engine

import (
	"time"

	"github.com/rs/zerolog"
)

type SearchStats struct {
	Nodes           int64
	ThreatNodes     int64
	TTProbes        int64
	TTHits          int64
	TTStores        int64
	Cutoffs         int64
	ReSearches      int64
	CompletedDepths int
	DepthDurations  []time.Duration
	Elapsed         time.Duration
}

// DepthReport is one completed (or aborted) iteration of the deepening loop.
type DepthReport struct {
	Depth    int
	Eval     int64
	Nodes    int64
	Elapsed  time.Duration
	Best     int
	TimedOut bool
}

func (r DepthReport) MarshalZerologObject(e *zerolog.Event) {
	e.Int("depth", r.Depth).
		Int64("eval", r.Eval).
		Int64("nodes", r.Nodes).
		Int64("time", r.Elapsed.Milliseconds()).
		Str("best", CoordString(r.Best)).
		Bool("timeout", r.TimedOut)
}

func (s *SearchStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("nodes", s.Nodes).
		Int64("threat_nodes", s.ThreatNodes).
		Int64("tt_probes", s.TTProbes).
		Int64("tt_hits", s.TTHits).
		Float64("tt_hit_rate", s.TTHitRate()).
		Int64("tt_stores", s.TTStores).
		Int64("cutoffs", s.Cutoffs).
		Int64("researches", s.ReSearches).
		Int("depths", s.CompletedDepths)
}

func (s *SearchStats) reset() {
	*s = SearchStats{}
}

func (s *SearchStats) TTHitRate() float64 {
	if s.TTProbes == 0 {
		return 0
	}
	return float64(s.TTHits) / float64(s.TTProbes)
}
