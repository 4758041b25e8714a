package toolproto

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/infohub-br/promoagent/internal/common"
	"github.com/infohub-br/promoagent/internal/faq"
	"github.com/infohub-br/promoagent/internal/intent"
	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/rank"
)

// Tool is one callable exposed to generative providers. The set is closed:
// the runner dispatches only over registered names.
type Tool interface {
	Name() string
	Run(ctx context.Context, args json.RawMessage) (string, error)
}

// BestPromotionsTool ranks a list of offers and renders the top entries.
type BestPromotionsTool struct {
	MaxResults int
}

type bestPromotionsArgs struct {
	Offers []model.Offer `json:"offers"`
}

// Name returns the wire name of the tool.
func (t *BestPromotionsTool) Name() string { return "best_promotions" }

// Run ranks the offers by price then distance and returns a rendered list.
func (t *BestPromotionsTool) Run(_ context.Context, args json.RawMessage) (string, error) {
	var parsed bestPromotionsArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("%w: best_promotions: %v", common.ErrMalformedToolCall, err)
	}
	if len(parsed.Offers) == 0 {
		return "", common.ErrNoOffers
	}

	max := t.MaxResults
	if max <= 0 {
		max = 5
	}
	return rank.OfferList(rank.Offers(parsed.Offers, max)), nil
}

// FAQTool answers service questions from the static table.
type FAQTool struct{}

type faqArgs struct {
	Question string `json:"question"`
}

// Name returns the wire name of the tool.
func (t *FAQTool) Name() string { return "faq" }

// Run looks the question up in the FAQ table. It always produces an answer.
func (t *FAQTool) Run(_ context.Context, args json.RawMessage) (string, error) {
	var parsed faqArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("%w: faq: %v", common.ErrMalformedToolCall, err)
	}
	return faq.Answer(intent.Normalize(parsed.Question)), nil
}

// Runner dispatches tool calls over a closed registry.
type Runner struct {
	tools map[string]Tool
}

// NewRunner registers the given tools. Later registrations with the same
// name override earlier ones.
func NewRunner(tools ...Tool) *Runner {
	registry := make(map[string]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Runner{tools: registry}
}

// Run executes the named tool. Unregistered names fail with ErrUnknownTool;
// there is no dynamic dispatch of any kind.
func (r *Runner) Run(ctx context.Context, call Call) (string, error) {
	tool, ok := r.tools[call.Name]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownTool, call.Name)
	}
	return tool.Run(ctx, call.Args)
}
