package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/provider"
)

// Generator produces text from a prompt. Satisfied by *provider.Manager.
type Generator interface {
	Generate(ctx context.Context, prompt, tag string) (provider.Generation, error)
}

// generativeDiscount is applied to model-reported confidence so a generative
// classification never outranks an equally confident pattern match.
const generativeDiscount = 0.8

const classifyPromptTemplate = `Você é um classificador de intenções para um chat de promoções de supermercado.

Classifique a mensagem do usuário em exatamente UMA das categorias:
- saudacao: cumprimentos e aberturas de conversa
- como_funciona_chat: dúvidas sobre como usar o chat
- catalogo: perguntas sobre quais produtos existem
- promocoes_gerais: pedido de promoções em geral, sem produto específico
- melhor_preco_local: busca do menor preço de um produto por perto
- promocao: pergunta sobre promoção de um produto específico
- outro: qualquer outra coisa

Mensagem: %q

Responda APENAS neste formato, uma informação por linha:
INTENCAO: <categoria>
PRODUTO: <produto mencionado, ou "nenhum">
CONFIANCA: <número entre 0.0 e 1.0>`

// generativeClassifier asks an LLM to classify messages the pattern layer
// could not resolve. It never returns an error: any failure or malformed
// reply degrades to the fallback intent with low confidence.
type generativeClassifier struct {
	generator Generator
	logger    *slog.Logger
}

func newGenerativeClassifier(generator Generator, logger *slog.Logger) *generativeClassifier {
	return &generativeClassifier{generator: generator, logger: logger}
}

func (g *generativeClassifier) classify(ctx context.Context, message string) model.Classification {
	fallback := model.Classification{
		Intent:     model.IntentOther,
		Method:     model.MethodGenerative,
		Confidence: 0.5,
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, message)
	gen, err := g.generator.Generate(ctx, prompt, "classify")
	if err != nil {
		g.logger.Warn("generative classification failed", "error", err)
		return fallback
	}

	intent, product, confidence, ok := parseClassifyReply(gen.Text)
	if !ok {
		g.logger.Warn("malformed classification reply", "provider", gen.Provider)
		return fallback
	}

	return model.Classification{
		Intent:     intent,
		Product:    product,
		Method:     model.MethodGenerative,
		Confidence: confidence * generativeDiscount,
	}
}

// parseClassifyReply scans a model reply line by line for the expected
// prefixes. Models decorate replies with preambles and markdown; scanning is
// tolerant of everything except a missing or unknown intent line.
func parseClassifyReply(text string) (intent model.Intent, product string, confidence float64, ok bool) {
	confidence = 0.5

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*`"))

		switch {
		case hasFoldedPrefix(line, "INTENCAO:"):
			candidate := model.Intent(Normalize(valueAfterColon(line)))
			if candidate.Valid() {
				intent = candidate
				ok = true
			}
		case hasFoldedPrefix(line, "PRODUTO:"):
			product = sanitizeProduct(valueAfterColon(line))
		case hasFoldedPrefix(line, "CONFIANCA:"):
			if v, err := strconv.ParseFloat(valueAfterColon(line), 64); err == nil {
				confidence = clamp01(v)
			}
		}
	}

	return intent, product, confidence, ok
}

func hasFoldedPrefix(line, prefix string) bool {
	return strings.HasPrefix(strings.ToUpper(Normalize(line)), prefix)
}

func valueAfterColon(line string) string {
	_, after, _ := strings.Cut(line, ":")
	return strings.TrimSpace(after)
}

// sanitizeProduct maps the model's "no product" spellings to empty.
func sanitizeProduct(raw string) string {
	p := Normalize(raw)
	switch p {
	case "", "nenhum", "nenhuma", "none", "null", "n/a", "na", "-":
		return ""
	}
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
