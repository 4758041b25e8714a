package provider

import "context"

// localConfidence marks local replies as best-effort so downstream consumers
// can tell them apart from network generations.
const localConfidence = 0.6

// LocalResponder is the terminal fallback: it always succeeds, returning a
// canned reply that keeps the conversation alive while every network
// provider is down.
type LocalResponder struct{}

// NewLocalResponder creates the terminal fallback responder.
func NewLocalResponder() *LocalResponder {
	return &LocalResponder{}
}

// Name returns the identifier reported in response metadata.
func (r *LocalResponder) Name() string { return "local_fallback" }

// Respond returns the canned degraded-mode reply. It never fails.
func (r *LocalResponder) Respond(_ context.Context, _ string) Generation {
	return Generation{
		Text: "Desculpe, estou com dificuldade para processar sua mensagem agora. " +
			"Você pode perguntar sobre promoções de um produto, por exemplo: \"leite barato perto de mim\".",
		Provider:   r.Name(),
		Confidence: localConfidence,
	}
}
