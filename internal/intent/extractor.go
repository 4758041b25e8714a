package intent

import (
	"regexp"
	"strings"
)

// ExtractorConfig exposes the tunables of product extraction. The defaults
// reproduce the production behavior; tests may tighten or loosen them.
type ExtractorConfig struct {
	StopWords       []string
	MaxEditDistance int
	MinFuzzyWordLen int
}

// DefaultExtractorConfig returns the default extraction tunables.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxEditDistance: 2,
		MinFuzzyWordLen: 4,
		StopWords:       defaultStopWords,
	}
}

// ProductExtractor pulls a searched product term out of free text.
// It is a pure function of its input: no external calls, deterministic output.
type ProductExtractor struct {
	stopWords       map[string]struct{}
	corrections     map[string]string
	generalPhrases  []string
	vocabulary      []string
	maxEditDistance int
	minFuzzyWordLen int
}

// NewProductExtractor creates an extractor with the default vocabulary,
// correction table, and general-inquiry phrase list.
func NewProductExtractor(cfg ExtractorConfig) *ProductExtractor {
	if cfg.MaxEditDistance <= 0 {
		cfg.MaxEditDistance = 2
	}
	if cfg.MinFuzzyWordLen <= 0 {
		cfg.MinFuzzyWordLen = 4
	}
	if len(cfg.StopWords) == 0 {
		cfg.StopWords = defaultStopWords
	}

	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[Normalize(w)] = struct{}{}
	}

	return &ProductExtractor{
		stopWords:       stop,
		corrections:     defaultCorrections,
		generalPhrases:  defaultGeneralPhrases,
		vocabulary:      defaultVocabulary,
		maxEditDistance: cfg.MaxEditDistance,
		minFuzzyWordLen: cfg.MinFuzzyWordLen,
	}
}

var wordRe = regexp.MustCompile(`\w+`)

// Extract returns the product term found in text, or "" when none can be
// bound. General-inquiry phrasing ("quais as promoções perto de mim") is
// rejected outright so it never yields a spurious token.
func (e *ProductExtractor) Extract(text string) string {
	normalized := Normalize(text)

	for _, phrase := range e.generalPhrases {
		if strings.Contains(normalized, phrase) {
			return ""
		}
	}

	words := wordRe.FindAllString(normalized, -1)
	for i, w := range words {
		if fixed, ok := e.corrections[w]; ok {
			words[i] = fixed
		}
	}

	// Known vocabulary wins over any heuristic.
	for _, w := range words {
		for _, known := range e.vocabulary {
			if w == known {
				return known
			}
		}
	}

	// Fuzzy pass: a slightly misspelled word close to a known product.
	for _, w := range words {
		if len(w) <= e.minFuzzyWordLen {
			continue
		}
		if _, isStop := e.stopWords[w]; isStop {
			continue
		}
		for _, known := range e.vocabulary {
			if editDistance(w, known, e.maxEditDistance) <= e.maxEditDistance {
				return known
			}
		}
	}

	// Last resort: the longest token that is not a stop word.
	best := ""
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, isStop := e.stopWords[w]; isStop {
			continue
		}
		if len(w) > len(best) {
			best = w
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b, bailing out
// with max+1 once the distance provably exceeds max.
func editDistance(a, b string, max int) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > max {
		return max + 1
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// defaultVocabulary is the canonical product list, grouped by store section.
var defaultVocabulary = []string{
	// laticinios
	"leite", "iogurte", "queijo", "manteiga", "creme",
	// higiene
	"shampoo", "condicionador", "sabonete", "pasta", "escova",
	// limpeza
	"detergente", "sabao", "amaciante", "desinfetante", "alvejante",
	// alimentos
	"arroz", "feijao", "acucar", "oleo", "sal", "farinha",
	// bebidas
	"suco", "refrigerante", "agua", "cerveja", "energetico",
	// padaria
	"pao", "biscoito", "bolo", "torta", "salgado",
	// carnes
	"frango", "carne", "peixe", "linguica", "presunto",
	// farmacia
	"remedio", "vitamina", "protetor", "alcool",
}

// defaultCorrections maps frequent misspellings to canonical products.
var defaultCorrections = map[string]string{
	"lete":     "leite",
	"leit":     "leite",
	"xampu":    "shampoo",
	"arros":    "arroz",
	"asucar":   "acucar",
	"assucar":  "acucar",
	"fejao":    "feijao",
	"iogurt":   "iogurte",
	"remedios": "remedio",
	"paozinho": "pao",
}

// defaultGeneralPhrases never yield a product: the user is asking about
// promotions in general, not naming an item.
var defaultGeneralPhrases = []string{
	"quais as promocoes",
	"que promocoes",
	"promocoes disponiveis",
	"promocoes perto",
	"quais ofertas",
	"ofertas disponiveis",
	"ofertas perto",
	"ofertas proximas",
	"suas promocoes",
	"as promocoes",
	"o que tem",
	"que produtos",
}

var defaultStopWords = []string{
	"o", "a", "os", "as", "um", "uma", "uns", "umas", "de", "da", "do",
	"das", "dos", "em", "na", "no", "nas", "nos", "para", "com", "por",
	"que", "quero", "preciso", "barato", "baratos", "barata", "baratas",
	"promocao", "promocoes", "desconto", "descontos", "oferta", "ofertas",
	"melhor", "melhores", "preco", "precos", "onde", "comprar", "encontrar",
	"tem", "ha", "existe", "existem", "perto", "proximo", "proxima",
	"aqui", "local", "regiao", "area", "mim", "minha", "meu",
	"algo", "algum", "alguma", "coisa", "hoje", "agora", "voce", "voces",
}
