package poller

import "context"

// Run starts the fixed-cadence poll loop. One goroutine, no overlap, no
// retries within a tick: a failed poll simply persists until the next one.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.PollOnce()
		}
	}
}
