package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	name  string
	reply string
	err   error
	calls int
	delay time.Duration
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Generate(ctx context.Context, _ string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, chain []Spec, local *LocalResponder, cfg ManagerConfig) *Manager {
	t.Helper()
	m, err := NewManager(chain, local, cfg, discardLogger())
	require.NoError(t, err)
	return m
}

func TestManagerFallbackOrder(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}
	secondary := &fakeClient{name: "secondary", reply: "uma resposta bem completa"}

	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 10},
		{Client: secondary, RequestsPerMinute: 10},
	}, nil, DefaultManagerConfig())

	gen, err := m.Generate(context.Background(), "pergunta", "test")

	require.NoError(t, err)
	assert.Equal(t, "secondary", gen.Provider)
	assert.Equal(t, "uma resposta bem completa", gen.Text)
	assert.Equal(t, 0.9, gen.Confidence)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestManagerSkipsCoolingProvider(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}
	secondary := &fakeClient{name: "secondary", reply: "resposta longa o suficiente"}

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 10},
		{Client: secondary, RequestsPerMinute: 10},
	}, nil, ManagerConfig{Cooldown: 5 * time.Minute, CacheSize: 8, MaxCacheableLatency: 2 * time.Second, MinCacheableLength: 10})
	m.now = func() time.Time { return current }

	_, err := m.Generate(context.Background(), "primeira", "test")
	require.NoError(t, err)
	_, err = m.Generate(context.Background(), "segunda", "test")
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls, "failed provider must not be retried inside the cooldown")
	assert.Equal(t, 2, secondary.calls)

	// After the cooldown the provider is probed again.
	primary.err = nil
	primary.reply = "primary voltou a funcionar"
	current = current.Add(5*time.Minute + time.Second)

	gen, err := m.Generate(context.Background(), "terceira", "test")
	require.NoError(t, err)
	assert.Equal(t, "primary", gen.Provider)
	assert.Equal(t, 2, primary.calls)
}

func TestManagerStickyUnavailabilityWithoutCooldown(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}
	secondary := &fakeClient{name: "secondary", reply: "resposta suficientemente longa"}

	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 10},
		{Client: secondary, RequestsPerMinute: 10},
	}, nil, ManagerConfig{Cooldown: 0, CacheSize: 8, MaxCacheableLatency: 2 * time.Second, MinCacheableLength: 10})

	for i := 0; i < 3; i++ {
		_, err := m.Generate(context.Background(), "pergunta", "test-"+string(rune('a'+i)))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 3, secondary.calls)
}

func TestManagerTimeoutAdvancesChain(t *testing.T) {
	slow := &fakeClient{name: "slow", reply: "resposta que nunca chega a tempo", delay: 200 * time.Millisecond}
	fast := &fakeClient{name: "fast", reply: "resposta rapida e completa"}

	m := newTestManager(t, []Spec{
		{Client: slow, RequestsPerMinute: 10, Timeout: 20 * time.Millisecond},
		{Client: fast, RequestsPerMinute: 10},
	}, nil, DefaultManagerConfig())

	first, err := m.Generate(context.Background(), "primeira pergunta", "test")
	require.NoError(t, err)
	assert.Equal(t, "fast", first.Provider, "a timed-out call is abandoned and the chain advances")
	assert.Equal(t, 1, slow.calls)

	second, err := m.Generate(context.Background(), "segunda pergunta", "test")
	require.NoError(t, err)
	assert.Equal(t, "fast", second.Provider)
	assert.Equal(t, 1, slow.calls, "a timeout counts as a failure, so the provider cools down")
}

func TestManagerRateLimitSkips(t *testing.T) {
	primary := &fakeClient{name: "primary", reply: "resposta do provedor primario"}
	secondary := &fakeClient{name: "secondary", reply: "resposta do provedor secundario"}

	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 1},
		{Client: secondary, RequestsPerMinute: 10},
	}, nil, DefaultManagerConfig())

	first, err := m.Generate(context.Background(), "primeira pergunta", "test")
	require.NoError(t, err)
	second, err := m.Generate(context.Background(), "segunda pergunta", "test")
	require.NoError(t, err)

	assert.Equal(t, "primary", first.Provider)
	assert.Equal(t, "secondary", second.Provider, "over-limit provider is skipped, not failed")
	assert.Equal(t, 1, primary.calls)
}

func TestManagerLocalFallback(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}

	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 10},
	}, NewLocalResponder(), DefaultManagerConfig())

	gen, err := m.Generate(context.Background(), "pergunta", "test")

	require.NoError(t, err)
	assert.Equal(t, "local_fallback", gen.Provider)
	assert.Equal(t, 0.6, gen.Confidence)
	assert.NotEmpty(t, gen.Text)
}

func TestManagerExhaustedWithoutLocal(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}

	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 10},
	}, nil, DefaultManagerConfig())

	_, err := m.Generate(context.Background(), "pergunta", "test")
	assert.Error(t, err)
}

func TestManagerCache(t *testing.T) {
	t.Run("fast long replies are cached", func(t *testing.T) {
		primary := &fakeClient{name: "primary", reply: "uma resposta bem completa"}
		m := newTestManager(t, []Spec{{Client: primary, RequestsPerMinute: 10}}, nil, DefaultManagerConfig())

		first, err := m.Generate(context.Background(), "pergunta", "test")
		require.NoError(t, err)
		second, err := m.Generate(context.Background(), "pergunta", "test")
		require.NoError(t, err)

		assert.False(t, first.Cached)
		assert.True(t, second.Cached)
		assert.Equal(t, 1, primary.calls)
	})

	t.Run("short replies are not cached", func(t *testing.T) {
		primary := &fakeClient{name: "primary", reply: "ok"}
		m := newTestManager(t, []Spec{{Client: primary, RequestsPerMinute: 10}}, nil, DefaultManagerConfig())

		_, err := m.Generate(context.Background(), "pergunta", "test")
		require.NoError(t, err)
		second, err := m.Generate(context.Background(), "pergunta", "test")
		require.NoError(t, err)

		assert.False(t, second.Cached)
		assert.Equal(t, 2, primary.calls)
	})

	t.Run("tag partitions the cache", func(t *testing.T) {
		primary := &fakeClient{name: "primary", reply: "uma resposta bem completa"}
		m := newTestManager(t, []Spec{{Client: primary, RequestsPerMinute: 10}}, nil, DefaultManagerConfig())

		_, err := m.Generate(context.Background(), "pergunta", "classify")
		require.NoError(t, err)
		other, err := m.Generate(context.Background(), "pergunta", "chat")
		require.NoError(t, err)

		assert.False(t, other.Cached)
		assert.Equal(t, 2, primary.calls)
	})
}

func TestManagerRequiresSomeProvider(t *testing.T) {
	_, err := NewManager(nil, nil, DefaultManagerConfig(), discardLogger())
	assert.Error(t, err)
}

func TestManagerStatus(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}
	m := newTestManager(t, []Spec{
		{Client: primary, RequestsPerMinute: 10},
	}, NewLocalResponder(), DefaultManagerConfig())

	_, err := m.Generate(context.Background(), "pergunta", "test")
	require.NoError(t, err)

	statuses := m.Status()
	require.Len(t, statuses, 2)

	assert.Equal(t, "primary", statuses[0].Name)
	assert.False(t, statuses[0].Available)
	assert.NotEmpty(t, statuses[0].RetryAfter)

	assert.Equal(t, "local_fallback", statuses[1].Name)
	assert.True(t, statuses[1].Available)
	assert.Equal(t, int64(1), statuses[1].RequestsServed)
}
