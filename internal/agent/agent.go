// Package agent orchestrates a chat request end to end: classification,
// canned replies, offer lookups, and the generative tool loop, with a
// response cache in front of everything.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/infohub-br/promoagent/internal/common"
	"github.com/infohub-br/promoagent/internal/faq"
	"github.com/infohub-br/promoagent/internal/intent"
	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/rank"
	"github.com/infohub-br/promoagent/internal/toolproto"
)

// Classifier resolves a message to an intent. Satisfied by *intent.Classifier.
type Classifier interface {
	Classify(ctx context.Context, message string, userID int64) model.Classification
}

// OfferSource answers offer lookups. Satisfied by *storage.Store.
type OfferSource interface {
	SearchOffers(ctx context.Context, term string, userID int64) ([]model.Offer, error)
	NearbyOffers(ctx context.Context, userID int64) ([]model.Offer, error)
}

// Exchanger runs the generative tool loop. Satisfied by *toolproto.Exchange.
type Exchanger interface {
	Run(ctx context.Context, userMessage string) (toolproto.Result, error)
}

// Policy selects how unresolved messages are handled.
type Policy string

// Supported policies.
const (
	// PolicyHybrid escalates unresolved messages to the generative layer.
	PolicyHybrid Policy = "hybrid"
	// PolicyRulesOnly never calls a provider; unresolved messages get a
	// canned redirect.
	PolicyRulesOnly Policy = "rules_only"
)

// Config holds agent tunables.
type Config struct {
	Policy Policy
	// CacheSize bounds the response cache entry count.
	CacheSize int
	// MaxCacheableLatency gates response caching: slow replies are not
	// worth serving stale.
	MaxCacheableLatency time.Duration
	// CacheConfidenceThreshold gates response caching by classification
	// confidence.
	CacheConfidenceThreshold float64
	// MaxResults caps how many offers a reply lists.
	MaxResults int
}

// DefaultConfig returns production agent settings.
func DefaultConfig() Config {
	return Config{
		Policy:                   PolicyHybrid,
		CacheSize:                512,
		MaxCacheableLatency:      2 * time.Second,
		CacheConfidenceThreshold: 0.7,
		MaxResults:               5,
	}
}

// Agent handles chat requests.
type Agent struct {
	classifier Classifier
	offers     OfferSource
	exchange   Exchanger
	cache      *common.LRU[model.ChatResponse]
	stats      Stats
	cfg        Config
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an Agent. The exchanger may be nil; combined with
// PolicyRulesOnly that yields a fully deterministic agent.
func New(classifier Classifier, offers OfferSource, exchange Exchanger, cfg Config, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyHybrid
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}

	return &Agent{
		classifier: classifier,
		offers:     offers,
		exchange:   exchange,
		cache:      common.NewLRU[model.ChatResponse](cfg.CacheSize),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Stats returns a snapshot of the request counters.
func (a *Agent) Stats() StatsSnapshot {
	return a.stats.Snapshot()
}

// Process answers one chat request. Every branch fills response metadata;
// user-visible degradations (no location, no offers) are replies, not errors.
func (a *Agent) Process(ctx context.Context, req model.ChatRequest) (model.ChatResponse, error) {
	start := a.now()
	key := fmt.Sprintf("%s|%d", intent.Normalize(req.Message), req.UserID)

	if cached, ok := a.cache.Get(key); ok {
		a.stats.recordCacheHit()
		cached.Metadata.Cached = true
		cached.Metadata.ResponseTimeMs = a.now().Sub(start).Milliseconds()
		return cached, nil
	}

	cls := a.classifier.Classify(ctx, req.Message, req.UserID)

	resp, generative, err := a.dispatch(ctx, req, cls)
	if err != nil {
		return model.ChatResponse{}, err
	}

	elapsed := a.now().Sub(start)
	resp.Metadata.Intent = cls.Intent
	resp.Metadata.Method = cls.Method
	resp.Metadata.ResponseTimeMs = elapsed.Milliseconds()

	if generative {
		a.stats.recordGenerative()
	} else {
		a.stats.recordQuick()
	}

	if elapsed < a.cfg.MaxCacheableLatency && cls.Confidence > a.cfg.CacheConfidenceThreshold {
		a.cache.Put(key, resp)
	}

	a.logger.Info("chat request handled",
		"intent", cls.Intent,
		"method", cls.Method,
		"confidence", cls.Confidence,
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return resp, nil
}

func (a *Agent) dispatch(ctx context.Context, req model.ChatRequest, cls model.Classification) (model.ChatResponse, bool, error) {
	switch cls.Intent {
	case model.IntentGreeting:
		return reply(greetingReply, cls.Confidence), false, nil

	case model.IntentHowItWorks:
		return reply(faq.Answer(intent.Normalize(req.Message)), cls.Confidence), false, nil

	case model.IntentCatalog:
		return reply(catalogReply, cls.Confidence), false, nil

	case model.IntentGeneralPromos:
		resp, err := a.generalPromos(ctx, req, cls)
		return resp, false, err

	case model.IntentProductPromo, model.IntentBestPriceNearby:
		resp, err := a.productPromos(ctx, req, cls)
		return resp, false, err

	default:
		return a.freeform(ctx, req, cls)
	}
}

func (a *Agent) generalPromos(ctx context.Context, req model.ChatRequest, cls model.Classification) (model.ChatResponse, error) {
	offers, err := a.offers.NearbyOffers(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNoLocation) {
			return reply(noLocationReply, cls.Confidence), nil
		}
		return model.ChatResponse{}, fmt.Errorf("looking up nearby offers: %w", err)
	}
	if len(offers) == 0 {
		return offerReply(noGeneralOffersReply, cls.Confidence), nil
	}

	ranked := rank.Offers(offers, a.cfg.MaxResults)
	return offerReply(generalOffersReply(ranked), cls.Confidence), nil
}

func (a *Agent) productPromos(ctx context.Context, req model.ChatRequest, cls model.Classification) (model.ChatResponse, error) {
	if cls.Product == "" {
		return reply(askProductReply, cls.Confidence), nil
	}

	offers := req.Offers
	if len(offers) == 0 {
		var err error
		offers, err = a.offers.SearchOffers(ctx, cls.Product, req.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNoLocation) {
				return reply(noLocationReply, cls.Confidence), nil
			}
			return model.ChatResponse{}, fmt.Errorf("searching offers for %q: %w", cls.Product, err)
		}
	}

	if len(offers) == 0 {
		return offerReply(noOffersReply(cls.Product), cls.Confidence), nil
	}

	ranked := rank.Offers(offers, a.cfg.MaxResults)
	return offerReply(offersReply(cls.Product, ranked), cls.Confidence), nil
}

func (a *Agent) freeform(ctx context.Context, req model.ChatRequest, cls model.Classification) (model.ChatResponse, bool, error) {
	if a.cfg.Policy == PolicyRulesOnly || a.exchange == nil {
		return reply(fallbackAnswer(), cls.Confidence), false, nil
	}

	result, err := a.exchange.Run(ctx, req.Message)
	if err != nil {
		a.logger.Warn("generative exchange failed", "error", err)
		return reply(fallbackAnswer(), cls.Confidence), false, nil
	}

	return model.ChatResponse{
		Reply:      result.Reply,
		ToolsUsed:  result.ToolsUsed,
		Confidence: result.Confidence,
	}, true, nil
}

func reply(text string, confidence float64) model.ChatResponse {
	return model.ChatResponse{Reply: text, Confidence: confidence}
}

// offerReply marks a reply that consulted offer data, so the tools list is
// informative on the data path too, not only in generative mode.
func offerReply(text string, confidence float64) model.ChatResponse {
	r := reply(text, confidence)
	r.ToolsUsed = []string{"offer_search"}
	return r
}

func fallbackAnswer() string {
	return "Meu foco são promoções de produtos de supermercado perto de você. " +
		"Me diga qual produto você procura!"
}
