package services

import (
	"context"
	"sync"
	"time"

	"github.com/amaumene/cinescope/internal/result"
	"github.com/amaumene/cinescope/pkg/logger"
)

const defaultCleanupInterval = 6 * time.Hour

// SessionVerifier is satisfied by *repository.UserRepository.
type SessionVerifier interface {
	VerifySession(ctx context.Context) result.Result[bool]
}

// CleanupService periodically drops local state that went stale on the
// server side: a session revoked on TMDB is removed from the local store.
type CleanupService struct {
	sessions  SessionVerifier
	logger    logger.Logger
	interval  time.Duration
	onExpired func()

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewCleanupService creates a new cleanup service. onExpired, if not nil,
// runs after each pass that found no valid session.
func NewCleanupService(sessions SessionVerifier, log logger.Logger, onExpired func()) *CleanupService {
	if log == nil {
		log = logger.Nop()
	}
	return &CleanupService{
		sessions:  sessions,
		logger:    log,
		interval:  defaultCleanupInterval,
		onExpired: onExpired,
	}
}

// SetInterval sets how often cleanup runs. It applies from the next Start.
func (c *CleanupService) SetInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = d
}

// Start runs one cleanup immediately and then every interval until ctx is
// done or Stop is called.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stopChan = make(chan struct{})
	c.done = make(chan struct{})
	interval := c.interval
	c.mu.Unlock()

	c.logger.Infof("[Cleanup] starting cleanup service with interval: %v", interval)
	go c.cleanupLoop(ctx, interval)
}

// Stop stops the loop and waits for a running pass to finish.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopChan)
	done := c.done
	c.mu.Unlock()

	<-done
	c.logger.Infof("[Cleanup] cleanup service stopped")
}

func (c *CleanupService) cleanupLoop(ctx context.Context, interval time.Duration) {
	defer close(c.done)

	c.performCleanup(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.performCleanup(ctx)
		}
	}
}

func (c *CleanupService) performCleanup(ctx context.Context) {
	valid, err := c.sessions.VerifySession(ctx).Get()
	if err != nil {
		c.logger.Debugf("[Cleanup] session check skipped: %v", err)
		return
	}
	if !valid && c.onExpired != nil {
		c.onExpired()
	}
}
