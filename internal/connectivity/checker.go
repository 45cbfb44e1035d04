package connectivity

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Checker tracks upstream reachability. A background probe keeps an atomic
// flag fresh so IsOnline never blocks a read path.
type Checker struct {
	probeURL string
	interval time.Duration
	client   *http.Client
	online   atomic.Bool
	logger   *zap.Logger
}

// NewChecker builds a checker probing the given URL. The checker starts
// optimistic; the first probe corrects it.
func NewChecker(probeURL string, interval, timeout time.Duration, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	c := &Checker{
		probeURL: probeURL,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
	c.online.Store(true)
	return c
}

// IsOnline reports the last observed reachability. Non-blocking.
func (c *Checker) IsOnline() bool {
	return c.online.Load()
}

// SetOnline overrides the reachability flag. Used by tests and by callers
// that learn about connectivity changes out of band.
func (c *Checker) SetOnline(online bool) {
	c.online.Store(online)
}

// Start runs the probe loop until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.probe(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.probe(ctx)
			}
		}
	}()
}

func (c *Checker) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		return
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if c.online.Swap(false) {
			c.logger.Sugar().Warnw("upstream unreachable", "url", c.probeURL, "error", err)
		}
		return
	}
	_ = resp.Body.Close()
	if !c.online.Swap(true) {
		c.logger.Sugar().Infow("upstream reachable again", "url", c.probeURL)
	}
}
