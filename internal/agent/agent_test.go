package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infohub-br/promoagent/internal/common"
	"github.com/infohub-br/promoagent/internal/intent"
	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/toolproto"
)

type mockOfferSource struct {
	searchOffers  []model.Offer
	nearbyOffers  []model.Offer
	err           error
	searchCalls   int
	nearbyCalls   int
	lastTerm      string
	lastUserID    int64
}

func (m *mockOfferSource) SearchOffers(_ context.Context, term string, userID int64) ([]model.Offer, error) {
	m.searchCalls++
	m.lastTerm = term
	m.lastUserID = userID
	return m.searchOffers, m.err
}

func (m *mockOfferSource) NearbyOffers(_ context.Context, userID int64) ([]model.Offer, error) {
	m.nearbyCalls++
	m.lastUserID = userID
	return m.nearbyOffers, m.err
}

type mockExchanger struct {
	result toolproto.Result
	err    error
	calls  int
}

func (m *mockExchanger) Run(_ context.Context, _ string) (toolproto.Result, error) {
	m.calls++
	return m.result, m.err
}

func newTestAgent(offers OfferSource, exchange Exchanger, cfg Config) *Agent {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	classifier := intent.New(nil, intent.DefaultConfig(), logger)
	return New(classifier, offers, exchange, cfg, logger)
}

func TestProcessGreeting(t *testing.T) {
	offers := &mockOfferSource{}
	exchange := &mockExchanger{}
	a := newTestAgent(offers, exchange, DefaultConfig())

	resp, err := a.Process(context.Background(), model.ChatRequest{Message: "oi", UserID: 1})

	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "Olá")
	assert.Equal(t, model.IntentGreeting, resp.Metadata.Intent)
	assert.Equal(t, model.MethodPatternRules, resp.Metadata.Method)
	assert.Equal(t, 0.95, resp.Confidence)
	assert.Empty(t, resp.ToolsUsed, "canned replies consult no tools")
	assert.Zero(t, offers.searchCalls+offers.nearbyCalls, "greeting must not touch the offer store")
	assert.Zero(t, exchange.calls, "greeting must not touch a provider")
}

func TestProcessProductPromo(t *testing.T) {
	t.Run("ranks request offers by price then distance", func(t *testing.T) {
		a := newTestAgent(&mockOfferSource{}, nil, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{
			Message: "leite barato",
			UserID:  1,
			Offers: []model.Offer{
				{Product: "leite", Establishment: "Mercado B", Price: 4.80, DistanceKm: 1.2},
				{Product: "leite", Establishment: "Mercado A", Price: 4.50, DistanceKm: 0.8},
			},
		})

		require.NoError(t, err)
		assert.Contains(t, resp.Reply, "R$ 4,50")
		assert.Contains(t, resp.Reply, "0.8 km")
		assert.Less(t, strings.Index(resp.Reply, "R$ 4,50"), strings.Index(resp.Reply, "R$ 4,80"))
		assert.Equal(t, model.IntentProductPromo, resp.Metadata.Intent)
		assert.Equal(t, []string{"offer_search"}, resp.ToolsUsed)
	})

	t.Run("falls back to the offer store", func(t *testing.T) {
		offers := &mockOfferSource{searchOffers: []model.Offer{
			{Product: "leite", Establishment: "Mercado A", Price: 4.50, DistanceKm: 0.8},
		}}
		a := newTestAgent(offers, nil, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "leite barato", UserID: 42})

		require.NoError(t, err)
		assert.Equal(t, 1, offers.searchCalls)
		assert.Equal(t, "leite", offers.lastTerm)
		assert.Equal(t, int64(42), offers.lastUserID)
		assert.Contains(t, resp.Reply, "R$ 4,50")
		assert.Equal(t, []string{"offer_search"}, resp.ToolsUsed)
	})

	t.Run("no offers found", func(t *testing.T) {
		a := newTestAgent(&mockOfferSource{}, nil, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "promoção de arroz", UserID: 1})

		require.NoError(t, err)
		assert.Contains(t, resp.Reply, "Não encontrei promoções de arroz")
	})

	t.Run("unregistered location gets a distinct reply", func(t *testing.T) {
		offers := &mockOfferSource{err: common.ErrNoLocation}
		a := newTestAgent(offers, nil, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "leite barato", UserID: 9})

		require.NoError(t, err)
		assert.Contains(t, resp.Reply, "endereço")
		assert.NotContains(t, resp.Reply, "Não encontrei promoções")
	})

	t.Run("missing product asks for one without a lookup", func(t *testing.T) {
		offers := &mockOfferSource{}
		a := newTestAgent(offers, nil, DefaultConfig())

		// Promo wording that names no product.
		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "tem algo em promoção?", UserID: 1})

		require.NoError(t, err)
		assert.Equal(t, model.IntentProductPromo, resp.Metadata.Intent)
		assert.Contains(t, resp.Reply, "Qual produto")
		assert.Zero(t, offers.searchCalls, "no product means no lookup")
	})
}

func TestProcessGeneralPromos(t *testing.T) {
	t.Run("lists top nearby offers", func(t *testing.T) {
		offers := &mockOfferSource{nearbyOffers: []model.Offer{
			{Product: "arroz", Establishment: "Mercado A", Price: 22.90, DistanceKm: 1.0},
			{Product: "leite", Establishment: "Mercado B", Price: 4.50, DistanceKm: 0.8},
		}}
		a := newTestAgent(offers, nil, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "quais as promoções perto de mim", UserID: 1})

		require.NoError(t, err)
		assert.Equal(t, model.IntentGeneralPromos, resp.Metadata.Intent)
		assert.Equal(t, 1, offers.nearbyCalls)
		assert.Zero(t, offers.searchCalls, "general inquiry must not run a product search")
		assert.Contains(t, resp.Reply, "leite")
		assert.Contains(t, resp.Reply, "arroz")
		assert.Equal(t, []string{"offer_search"}, resp.ToolsUsed)
	})

	t.Run("no active offers", func(t *testing.T) {
		a := newTestAgent(&mockOfferSource{}, nil, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "promoções", UserID: 1})

		require.NoError(t, err)
		assert.Contains(t, resp.Reply, "Não encontrei promoções ativas")
	})
}

func TestProcessFreeform(t *testing.T) {
	t.Run("hybrid policy runs the exchange", func(t *testing.T) {
		exchange := &mockExchanger{result: toolproto.Result{
			Reply:      "Resposta gerada",
			Provider:   "groq",
			Confidence: 0.9,
			ToolsUsed:  []string{"faq"},
		}}
		a := newTestAgent(&mockOfferSource{}, exchange, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "mensagem indecifrável aqui", UserID: 1})

		require.NoError(t, err)
		assert.Equal(t, "Resposta gerada", resp.Reply)
		assert.Equal(t, []string{"faq"}, resp.ToolsUsed)
		assert.Equal(t, 1, exchange.calls)
	})

	t.Run("rules-only policy never calls a provider", func(t *testing.T) {
		exchange := &mockExchanger{}
		cfg := DefaultConfig()
		cfg.Policy = PolicyRulesOnly
		a := newTestAgent(&mockOfferSource{}, exchange, cfg)

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "mensagem indecifrável aqui", UserID: 1})

		require.NoError(t, err)
		assert.Zero(t, exchange.calls)
		assert.Contains(t, resp.Reply, "foco")
	})

	t.Run("exchange failure degrades to canned reply", func(t *testing.T) {
		exchange := &mockExchanger{err: errors.New("all providers down")}
		a := newTestAgent(&mockOfferSource{}, exchange, DefaultConfig())

		resp, err := a.Process(context.Background(), model.ChatRequest{Message: "mensagem indecifrável aqui", UserID: 1})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Reply)
	})
}

func TestProcessResponseCache(t *testing.T) {
	a := newTestAgent(&mockOfferSource{}, nil, DefaultConfig())

	first, err := a.Process(context.Background(), model.ChatRequest{Message: "oi", UserID: 1})
	require.NoError(t, err)
	second, err := a.Process(context.Background(), model.ChatRequest{Message: "OI", UserID: 1})
	require.NoError(t, err)
	otherUser, err := a.Process(context.Background(), model.ChatRequest{Message: "oi", UserID: 2})
	require.NoError(t, err)

	assert.False(t, first.Metadata.Cached)
	assert.True(t, second.Metadata.Cached, "normalized repeat must be served from cache")
	assert.Equal(t, first.Reply, second.Reply)
	assert.False(t, otherUser.Metadata.Cached, "cache entries are per user")

	snap := a.Stats()
	assert.Equal(t, int64(3), snap.Total)
	assert.Equal(t, int64(1), snap.CacheHits)
}
