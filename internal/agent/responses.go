package agent

import (
	"fmt"

	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/rank"
)

const (
	greetingReply = "Olá! 👋 Eu acompanho promoções de supermercado perto de você. " +
		"Me diga qual produto você procura, por exemplo: \"leite barato\"."

	catalogReply = "Acompanho promoções de supermercado: laticínios, higiene, limpeza, " +
		"alimentos, bebidas, padaria, carnes e farmácia. Qual produto você procura?"

	askProductReply = "Claro! Qual produto você está procurando? " +
		"Por exemplo: \"promoção de arroz\" ou \"leite barato perto de mim\"."

	noLocationReply = "Para eu buscar ofertas perto de você, preciso do seu endereço. " +
		"Cadastre sua localização no seu perfil e tente de novo."

	noGeneralOffersReply = "Não encontrei promoções ativas perto de você no momento. " +
		"Tente de novo mais tarde ou pergunte por um produto específico."
)

func noOffersReply(product string) string {
	return fmt.Sprintf("Não encontrei promoções de %s perto de você no momento. "+
		"Quer tentar outro produto?", product)
}

func offersReply(product string, offers []model.Offer) string {
	header := fmt.Sprintf("Encontrei %d promoções de %s perto de você:\n", len(offers), product)
	if len(offers) == 1 {
		header = fmt.Sprintf("Encontrei 1 promoção de %s perto de você:\n", product)
	}
	return header + rank.OfferList(offers)
}

func generalOffersReply(offers []model.Offer) string {
	return fmt.Sprintf("Essas são as melhores promoções perto de você agora:\n%s",
		rank.OfferList(offers))
}
