// Package faq answers frequent questions about the service itself from a
// static table, so they never consume a provider request.
package faq

import "strings"

type entry struct {
	keywords []string
	answer   string
}

// The table is matched top to bottom on normalized text; first hit wins.
var entries = []entry{
	{
		keywords: []string{"como funciona", "como usar", "como posso usar"},
		answer: "É simples! Me diga qual produto você procura e eu busco as melhores " +
			"promoções perto de você. Por exemplo: \"leite barato\" ou \"promoção de arroz\".",
	},
	{
		keywords: []string{"horario", "que horas", "atendimento"},
		answer:   "Estou disponível 24 horas por dia, todos os dias. Pode perguntar quando quiser!",
	},
	{
		keywords: []string{"cadastro", "cadastrar", "endereco"},
		answer: "Para receber ofertas perto de você, cadastre seu endereço no seu perfil. " +
			"Assim eu consigo calcular a distância até cada estabelecimento.",
	},
	{
		keywords: []string{"gratis", "gratuito", "pagar", "custa"},
		answer:   "O serviço é totalmente gratuito. Você só paga pelos produtos que decidir comprar.",
	},
	{
		keywords: []string{"quais produtos", "que produtos", "catalogo"},
		answer: "Acompanho promoções de supermercado: laticínios, higiene, limpeza, " +
			"alimentos, bebidas, padaria, carnes e farmácia.",
	},
}

const fallbackAnswer = "Meu foco são promoções de produtos de supermercado perto de você. " +
	"Me diga qual produto você procura!"

// Answer returns the canned reply for a service question. Unrecognized
// questions get the focus reminder instead of an error.
func Answer(normalized string) string {
	for _, e := range entries {
		for _, kw := range e.keywords {
			if strings.Contains(normalized, kw) {
				return e.answer
			}
		}
	}
	return fallbackAnswer
}
