package pipeline

// Stats is a point-in-time snapshot of pipeline operational counters.
type Stats struct {
	Ticks uint64

	RingLen   int
	RingCap   int
	RingDrops uint64

	Merges uint64

	CacheRebuilds uint64
	CacheSkips    uint64
}

// Stats snapshots the pipeline's counters. Safe to call from any
// goroutine; counters are sampled independently, not as one atomic cut.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	ticks := p.ticks
	p.mu.Unlock()

	stats := Stats{
		Ticks:         ticks,
		RingLen:       p.ring.Len(),
		RingCap:       p.ring.Cap(),
		RingDrops:     p.ring.Drops(),
		CacheRebuilds: p.cache.Rebuilds(),
		CacheSkips:    p.cache.Skips(),
	}
	if p.barrier != nil {
		stats.Merges = p.barrier.Merges()
	}
	return stats
}
