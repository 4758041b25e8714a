package intent

import (
	"regexp"

	"github.com/infohub-br/promoagent/internal/model"
)

// Match is a successful pattern classification.
type Match struct {
	Intent     model.Intent
	Confidence float64
}

// patternRule associates one intent with the pattern set that detects it.
// Patterns are written against normalized (lowercased, diacritic-folded) text.
type patternRule struct {
	intent     model.Intent
	patterns   []*regexp.Regexp
	confidence float64
}

// PatternClassifier is a deterministic, zero-latency intent matcher.
// Rules are evaluated in a fixed priority order so a message matching more
// than one category always resolves to the higher-priority one.
type PatternClassifier struct {
	rules []patternRule
}

// NewPatternClassifier builds a classifier with the default rule table.
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{rules: defaultRules()}
}

// Classify tests the message against the rule table and returns the first
// matching intent. The second return value is false when no rule matched;
// absence is explicit so callers know to escalate to the generative layer.
func (c *PatternClassifier) Classify(text string) (Match, bool) {
	normalized := Normalize(text)

	for _, rule := range c.rules {
		for _, re := range rule.patterns {
			if re.MatchString(normalized) {
				return Match{Intent: rule.intent, Confidence: rule.confidence}, true
			}
		}
	}

	return Match{}, false
}

func defaultRules() []patternRule {
	return []patternRule{
		{
			intent:     model.IntentGreeting,
			confidence: 0.95,
			patterns: compile(
				`\b(oi|ola|hey|hi|hello|bom dia|boa tarde|boa noite)\b`,
			),
		},
		{
			intent:     model.IntentHowItWorks,
			confidence: 0.92,
			patterns: compile(
				`\b(como funciona|como usar|como posso|ajuda|help|tutorial)\b`,
				`\b(o que voce faz|que voce pode|suas funcoes)\b`,
			),
		},
		{
			intent:     model.IntentCatalog,
			confidence: 0.90,
			patterns: compile(
				`\b(que produtos|quais produtos|produtos disponiveis|catalogo|lista de produtos)\b`,
				`\b(o que tem|o que voces tem|que itens)\b`,
			),
		},
		{
			intent:     model.IntentGeneralPromos,
			confidence: 0.90,
			patterns: compile(
				`\b(quais as promocoes|que promocoes|promocoes disponiveis|quais ofertas|ofertas disponiveis)\b`,
				`^(promocoes?|ofertas?)$`,
			),
		},
		{
			intent:     model.IntentBestPriceNearby,
			confidence: 0.85,
			patterns: compile(
				`\b(melhor preco|mais barato|menor preco)\b.*\b(perto|proximo|aqui|local)\b`,
				`\b(perto|proximo|aqui)\b.*\b(melhor preco|mais barato|menor preco)\b`,
				`\b(onde comprar|onde encontrar)\b.*\b(barato|melhor preco)\b`,
			),
		},
		{
			intent:     model.IntentProductPromo,
			confidence: 0.80,
			patterns: compile(
				`\b\w+\b.*\b(barato|barata|promocao|desconto|oferta|liquidacao)\b`,
				`\b(promocao|desconto|oferta)\b.+\w+`,
				`\b\w+\b.*\b(em promocao|com desconto)\b`,
			),
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		res[i] = regexp.MustCompile(expr)
	}
	return res
}
