package toolproto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/infohub-br/promoagent/internal/common"
	"github.com/infohub-br/promoagent/internal/provider"
)

// maxRounds bounds the tool loop so a confused model cannot spin forever.
const maxRounds = 8

// Generator produces text from a prompt. Satisfied by *provider.Manager.
type Generator interface {
	Generate(ctx context.Context, prompt, tag string) (provider.Generation, error)
}

const exchangePreamble = `Você pode usar ferramentas para responder. Para chamar uma ferramenta, responda APENAS com:
<tool>{"tool": "<nome>", "args": {...}}</tool>

Ferramentas disponíveis:
- best_promotions: ordena ofertas por preço e distância. args: {"offers": [...]}
- faq: responde dúvidas sobre o serviço. args: {"question": "..."}

Quando tiver a resposta final para o usuário, responda com:
<final>sua resposta</final>`

// Exchange runs the tool-call loop: prompt the provider, execute any tool it
// requests, feed the result back, and repeat until a final reply or the
// round limit. It always returns a user-facing reply along with the names of
// the tools that ran.
type Exchange struct {
	generator Generator
	runner    *Runner
	logger    *slog.Logger
}

// NewExchange wires a generator to a tool runner.
func NewExchange(generator Generator, runner *Runner, logger *slog.Logger) *Exchange {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exchange{generator: generator, runner: runner, logger: logger}
}

// Result is the outcome of one full exchange.
type Result struct {
	Reply      string
	Provider   string
	Confidence float64
	ToolsUsed  []string
}

// Run drives the conversation for one user message.
func (e *Exchange) Run(ctx context.Context, userMessage string) (Result, error) {
	var transcript strings.Builder
	transcript.WriteString(exchangePreamble)
	transcript.WriteString("\n\nMensagem do usuário: ")
	transcript.WriteString(userMessage)

	var result Result

	for round := 0; round < maxRounds; round++ {
		gen, err := e.generator.Generate(ctx, transcript.String(), "chat")
		if err != nil {
			return Result{}, fmt.Errorf("exchange round %d: %w", round+1, err)
		}
		result.Provider = gen.Provider
		result.Confidence = gen.Confidence

		reply, err := ParseReply(gen.Text)
		if err != nil {
			// Recoverable: tell the model what went wrong and continue.
			e.logger.Debug("malformed tool call, asking again", "round", round+1, "error", err)
			transcript.WriteString("\n\nErro: chamada de ferramenta malformada. Use exatamente o formato indicado.")
			continue
		}

		if reply.Call == nil {
			result.Reply = reply.Final
			return result, nil
		}

		output, err := e.runner.Run(ctx, *reply.Call)
		if err != nil {
			if errors.Is(err, common.ErrUnknownTool) || errors.Is(err, common.ErrMalformedToolCall) || errors.Is(err, common.ErrNoOffers) {
				e.logger.Debug("tool error fed back to model", "tool", reply.Call.Name, "error", err)
				transcript.WriteString(fmt.Sprintf("\n\nErro da ferramenta %s: %v. Tente outra abordagem ou responda com <final>.", reply.Call.Name, err))
				continue
			}
			return Result{}, fmt.Errorf("tool %s: %w", reply.Call.Name, err)
		}

		result.ToolsUsed = append(result.ToolsUsed, reply.Call.Name)
		transcript.WriteString("\n\nResultado da ferramenta ")
		transcript.WriteString(reply.Call.Name)
		transcript.WriteString(":\n")
		transcript.WriteString(output)
		transcript.WriteString("\n\nContinue. Responda com <final> quando tiver a resposta para o usuário.")
	}

	// Round limit hit: degrade gracefully instead of failing the request.
	result.Reply = "Desculpe, não consegui concluir sua solicitação. Pode reformular a pergunta?"
	return result, nil
}
