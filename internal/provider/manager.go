package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/infohub-br/promoagent/internal/common"
)

// Generation is the outcome of one prompt, successful by construction: the
// manager either got a reply from some provider or fell back locally.
type Generation struct {
	Text       string
	Provider   string
	Confidence float64
	Cached     bool
	Elapsed    time.Duration
}

// Spec describes one provider slot in the chain, in priority order.
type Spec struct {
	Client            Client
	RequestsPerMinute int
	Timeout           time.Duration
}

// ManagerConfig holds chain-wide settings.
type ManagerConfig struct {
	// Cooldown is how long a failed provider is skipped before being probed
	// again. Zero or negative keeps a failed provider out for the lifetime
	// of the process.
	Cooldown time.Duration
	// CacheSize bounds the generation cache entry count.
	CacheSize int
	// MaxCacheableLatency gates caching: replies slower than this are not
	// worth serving stale.
	MaxCacheableLatency time.Duration
	// MinCacheableLength gates caching: very short replies are usually
	// refusals or errors in prose.
	MinCacheableLength int
}

// DefaultManagerConfig returns production chain settings.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Cooldown:            5 * time.Minute,
		CacheSize:           256,
		MaxCacheableLatency: 2 * time.Second,
		MinCacheableLength:  10,
	}
}

type slot struct {
	client      Client
	limiter     *windowLimiter
	timeout     time.Duration
	mu          sync.Mutex
	retryAfter  time.Time
	unavailable bool
}

// Manager walks a prioritized provider chain, skipping providers that are
// rate limited or cooling down after a failure, and falls back to a local
// responder when the whole chain is exhausted.
type Manager struct {
	slots    []*slot
	local    *LocalResponder
	cache    *common.LRU[Generation]
	cfg      ManagerConfig
	logger   *slog.Logger
	now      func() time.Time
	statsMu  sync.Mutex
	requests map[string]int64
}

// NewManager creates a Manager from the given chain. At least one provider
// or the local responder must be present.
func NewManager(chain []Spec, local *LocalResponder, cfg ManagerConfig, logger *slog.Logger) (*Manager, error) {
	if len(chain) == 0 && local == nil {
		return nil, fmt.Errorf("provider chain is empty and no local responder given: %w", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	slots := make([]*slot, 0, len(chain))
	for _, spec := range chain {
		slots = append(slots, &slot{
			client:  spec.Client,
			limiter: newWindowLimiter(spec.RequestsPerMinute, time.Minute),
			timeout: spec.Timeout,
		})
	}

	return &Manager{
		slots:    slots,
		local:    local,
		cache:    common.NewLRU[Generation](cfg.CacheSize),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		requests: make(map[string]int64),
	}, nil
}

// Generate resolves the prompt through the chain. The tag partitions the
// cache so identical prompts from different call sites never collide.
func (m *Manager) Generate(ctx context.Context, prompt, tag string) (Generation, error) {
	key := tag + "\x00" + prompt

	if cached, ok := m.cache.Get(key); ok {
		cached.Cached = true
		return cached, nil
	}

	for _, s := range m.slots {
		if !m.slotReady(s) {
			continue
		}
		if !s.limiter.allow() {
			m.logger.Debug("provider rate limited, skipping", "provider", s.client.Name())
			continue
		}

		start := m.now()
		text, err := m.callSlot(ctx, s, prompt)
		elapsed := m.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return Generation{}, ctx.Err()
			}
			m.markUnavailable(s)
			m.logger.Warn("provider failed, advancing chain",
				"provider", s.client.Name(),
				"error", err,
				"elapsed", elapsed,
			)
			continue
		}

		gen := Generation{
			Text:       text,
			Provider:   s.client.Name(),
			Confidence: 0.9,
			Elapsed:    elapsed,
		}
		m.recordRequest(gen.Provider)

		if elapsed < m.cfg.MaxCacheableLatency && len(text) > m.cfg.MinCacheableLength {
			m.cache.Put(key, gen)
		}
		return gen, nil
	}

	if m.local != nil {
		gen := m.local.Respond(ctx, prompt)
		m.recordRequest(gen.Provider)
		return gen, nil
	}

	return Generation{}, fmt.Errorf("all providers exhausted: %w", common.ErrProviderUnavailable)
}

func (m *Manager) callSlot(ctx context.Context, s *slot, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.client.Generate(ctx, prompt)
}

// slotReady reports whether the slot is currently usable, re-arming it when
// its cooldown has passed.
func (m *Manager) slotReady(s *slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unavailable {
		return true
	}
	if s.retryAfter.IsZero() {
		// No cooldown configured: failed providers stay out.
		return false
	}
	if m.now().Before(s.retryAfter) {
		return false
	}
	s.unavailable = false
	s.retryAfter = time.Time{}
	return true
}

func (m *Manager) markUnavailable(s *slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unavailable = true
	if m.cfg.Cooldown > 0 {
		s.retryAfter = m.now().Add(m.cfg.Cooldown)
	} else {
		s.retryAfter = time.Time{}
	}
}

func (m *Manager) recordRequest(name string) {
	m.statsMu.Lock()
	m.requests[name]++
	m.statsMu.Unlock()
}

// ProviderStatus is one provider's health snapshot.
type ProviderStatus struct {
	Name           string `json:"name"`
	Available      bool   `json:"available"`
	RequestsServed int64  `json:"requests_served"`
	WindowCount    int    `json:"window_count"`
	WindowLimit    int    `json:"window_limit"`
	RetryAfter     string `json:"retry_after,omitempty"`
}

// Status reports the chain state in priority order, local responder last.
func (m *Manager) Status() []ProviderStatus {
	m.statsMu.Lock()
	served := make(map[string]int64, len(m.requests))
	for k, v := range m.requests {
		served[k] = v
	}
	m.statsMu.Unlock()

	statuses := make([]ProviderStatus, 0, len(m.slots)+1)
	for _, s := range m.slots {
		count, limit := s.limiter.snapshot()

		s.mu.Lock()
		st := ProviderStatus{
			Name:           s.client.Name(),
			Available:      !s.unavailable || (!s.retryAfter.IsZero() && !m.now().Before(s.retryAfter)),
			RequestsServed: served[s.client.Name()],
			WindowCount:    count,
			WindowLimit:    limit,
		}
		if s.unavailable && !s.retryAfter.IsZero() {
			st.RetryAfter = s.retryAfter.Format(time.RFC3339)
		}
		s.mu.Unlock()

		statuses = append(statuses, st)
	}

	if m.local != nil {
		statuses = append(statuses, ProviderStatus{
			Name:           m.local.Name(),
			Available:      true,
			RequestsServed: served[m.local.Name()],
		})
	}

	return statuses
}
