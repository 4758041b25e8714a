package intent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/infohub-br/promoagent/internal/common"
	"github.com/infohub-br/promoagent/internal/model"
)

// Config holds classifier tunables.
type Config struct {
	// CacheSize bounds the classification cache entry count.
	CacheSize int
	// CacheThreshold is the minimum confidence for a result to be cached.
	CacheThreshold float64
	// Extractor configures product term extraction.
	Extractor ExtractorConfig
}

// DefaultConfig returns production classifier settings.
func DefaultConfig() Config {
	return Config{
		CacheSize:      1024,
		CacheThreshold: 0.7,
		Extractor:      DefaultExtractorConfig(),
	}
}

// Classifier resolves messages to intents: pattern layer first, generative
// fallback second, with a confidence-gated cache in front of both.
type Classifier struct {
	patterns   *PatternClassifier
	generative *generativeClassifier
	extractor  *ProductExtractor
	cache      *common.LRU[model.Classification]
	threshold  float64
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Classifier. A nil generator disables the generative layer;
// unmatched messages then resolve to the fallback intent at low confidence.
func New(generator Generator, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Classifier{
		patterns:  NewPatternClassifier(),
		extractor: NewProductExtractor(cfg.Extractor),
		cache:     common.NewLRU[model.Classification](cfg.CacheSize),
		threshold: cfg.CacheThreshold,
		logger:    logger,
		now:       time.Now,
	}
	if generator != nil {
		c.generative = newGenerativeClassifier(generator, logger)
	}
	return c
}

// Classify resolves message to an intent for the given user. The user ID
// participates in the cache key so identical text from different users never
// shares an entry.
func (c *Classifier) Classify(ctx context.Context, message string, userID int64) model.Classification {
	start := c.now()
	normalized := Normalize(message)
	key := fmt.Sprintf("%s|%d", normalized, userID)

	if cached, ok := c.cache.Get(key); ok {
		cached.Cached = true
		cached.ResponseTime = c.now().Sub(start)
		return cached
	}

	result := c.resolve(ctx, message, normalized)
	result.ResponseTime = c.now().Sub(start)

	if result.Confidence > c.threshold {
		c.cache.Put(key, result)
	}

	c.logger.Debug("classified message",
		"intent", result.Intent,
		"method", result.Method,
		"confidence", result.Confidence,
		"product", result.Product,
	)

	return result
}

func (c *Classifier) resolve(ctx context.Context, message, normalized string) model.Classification {
	if match, ok := c.patterns.Classify(normalized); ok {
		result := model.Classification{
			Intent:     match.Intent,
			Method:     model.MethodPatternRules,
			Confidence: match.Confidence,
		}
		c.bindProduct(&result, message)
		return result
	}

	if c.generative == nil {
		return model.Classification{
			Intent:     model.IntentOther,
			Method:     model.MethodPatternRules,
			Confidence: 0.5,
		}
	}

	result := c.generative.classify(ctx, message)
	c.bindProduct(&result, message)
	return result
}

// bindProduct fills in the product term for intents that need one and clears
// it for intents that must not carry one.
func (c *Classifier) bindProduct(result *model.Classification, message string) {
	if !result.Intent.RequiresProduct() {
		result.Product = ""
		return
	}
	if result.Product == "" {
		result.Product = c.extractor.Extract(message)
	}
}
