package intent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/provider"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _, _ string) (provider.Generation, error) {
	s.calls++
	if s.err != nil {
		return provider.Generation{}, s.err
	}
	return provider.Generation{Text: s.reply, Provider: "stub", Confidence: 0.9}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifierPatternLayer(t *testing.T) {
	gen := &stubGenerator{reply: "INTENCAO: outro"}
	c := New(gen, DefaultConfig(), testLogger())

	result := c.Classify(context.Background(), "oi", 1)

	assert.Equal(t, model.IntentGreeting, result.Intent)
	assert.Equal(t, model.MethodPatternRules, result.Method)
	assert.Equal(t, 0.95, result.Confidence)
	assert.False(t, result.Cached)
	assert.Zero(t, gen.calls, "pattern match must not reach the generative layer")
}

func TestClassifierProductBinding(t *testing.T) {
	c := New(nil, DefaultConfig(), testLogger())

	t.Run("product intent gets extracted term", func(t *testing.T) {
		result := c.Classify(context.Background(), "leite barato", 1)
		assert.Equal(t, model.IntentProductPromo, result.Intent)
		assert.Equal(t, "leite", result.Product)
	})

	t.Run("non-product intent never carries one", func(t *testing.T) {
		result := c.Classify(context.Background(), "quais as promoções perto de mim", 1)
		assert.Equal(t, model.IntentGeneralPromos, result.Intent)
		assert.Empty(t, result.Product)
	})
}

func TestClassifierGenerativeFallback(t *testing.T) {
	t.Run("parses constrained reply with discount", func(t *testing.T) {
		gen := &stubGenerator{reply: "INTENCAO: promocao\nPRODUTO: café\nCONFIANCA: 0.9"}
		c := New(gen, DefaultConfig(), testLogger())

		result := c.Classify(context.Background(), "sabe se o cafezinho tá valendo a pena?", 1)

		assert.Equal(t, model.IntentProductPromo, result.Intent)
		assert.Equal(t, "cafe", result.Product)
		assert.Equal(t, model.MethodGenerative, result.Method)
		assert.InDelta(t, 0.72, result.Confidence, 1e-9)
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("provider failure degrades to fallback intent", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("all providers down")}
		c := New(gen, DefaultConfig(), testLogger())

		result := c.Classify(context.Background(), "mensagem indecifrável aqui", 1)

		assert.Equal(t, model.IntentOther, result.Intent)
		assert.Equal(t, 0.5, result.Confidence)
	})

	t.Run("nil generator runs rules only", func(t *testing.T) {
		c := New(nil, DefaultConfig(), testLogger())

		result := c.Classify(context.Background(), "mensagem indecifrável aqui", 1)

		assert.Equal(t, model.IntentOther, result.Intent)
		assert.Equal(t, 0.5, result.Confidence)
	})
}

func TestClassifierCache(t *testing.T) {
	t.Run("caches confident results per user", func(t *testing.T) {
		c := New(nil, DefaultConfig(), testLogger())

		first := c.Classify(context.Background(), "oi", 7)
		second := c.Classify(context.Background(), "OI", 7)
		other := c.Classify(context.Background(), "oi", 8)

		assert.False(t, first.Cached)
		assert.True(t, second.Cached, "normalized repeat must hit the cache")
		assert.False(t, other.Cached, "cache entries are per user")
	})

	t.Run("low confidence results are not cached", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("down")}
		c := New(gen, DefaultConfig(), testLogger())

		_ = c.Classify(context.Background(), "mensagem indecifrável", 1)
		result := c.Classify(context.Background(), "mensagem indecifrável", 1)

		assert.False(t, result.Cached)
		assert.Equal(t, 2, gen.calls)
	})
}

func TestParseClassifyReply(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		intent, product, conf, ok := parseClassifyReply("INTENCAO: catalogo\nPRODUTO: nenhum\nCONFIANCA: 0.85")
		require.True(t, ok)
		assert.Equal(t, model.IntentCatalog, intent)
		assert.Empty(t, product)
		assert.Equal(t, 0.85, conf)
	})

	t.Run("tolerates decoration and case", func(t *testing.T) {
		reply := "Claro! Aqui está a classificação:\n**intencao: Promocao**\nproduto: Leite\nconfianca: 0.9\nEspero ter ajudado."
		intent, product, conf, ok := parseClassifyReply(reply)
		require.True(t, ok)
		assert.Equal(t, model.IntentProductPromo, intent)
		assert.Equal(t, "leite", product)
		assert.Equal(t, 0.9, conf)
	})

	t.Run("unknown intent is rejected", func(t *testing.T) {
		_, _, _, ok := parseClassifyReply("INTENCAO: reclamacao\nCONFIANCA: 0.9")
		assert.False(t, ok)
	})

	t.Run("missing confidence defaults", func(t *testing.T) {
		_, _, conf, ok := parseClassifyReply("INTENCAO: saudacao")
		require.True(t, ok)
		assert.Equal(t, 0.5, conf)
	})

	t.Run("out of range confidence is clamped", func(t *testing.T) {
		_, _, conf, ok := parseClassifyReply("INTENCAO: saudacao\nCONFIANCA: 7")
		require.True(t, ok)
		assert.Equal(t, 1.0, conf)
	})
}
