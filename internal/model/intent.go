// Package model defines the core domain models used throughout the application.
package model

import "time"

// Intent is a closed-set category describing what the user wants.
type Intent string

// Supported intents, in fixed priority order for pattern matching.
const (
	IntentGreeting        Intent = "saudacao"
	IntentHowItWorks      Intent = "como_funciona_chat"
	IntentCatalog         Intent = "catalogo"
	IntentGeneralPromos   Intent = "promocoes_gerais"
	IntentBestPriceNearby Intent = "melhor_preco_local"
	IntentProductPromo    Intent = "promocao"
	IntentOther           Intent = "outro"
)

// AllIntents lists every supported intent, in pattern priority order.
func AllIntents() []Intent {
	return []Intent{
		IntentGreeting,
		IntentHowItWorks,
		IntentCatalog,
		IntentGeneralPromos,
		IntentBestPriceNearby,
		IntentProductPromo,
		IntentOther,
	}
}

// Valid reports whether the intent belongs to the closed set.
func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentHowItWorks, IntentCatalog, IntentGeneralPromos,
		IntentBestPriceNearby, IntentProductPromo, IntentOther:
		return true
	}
	return false
}

// RequiresProduct reports whether the intent needs an extracted product term
// before an offer lookup can run.
func (i Intent) RequiresProduct() bool {
	return i == IntentProductPromo || i == IntentBestPriceNearby
}

// ClassificationMethod indicates which layer produced a classification.
type ClassificationMethod string

// Classification method constants.
const (
	MethodPatternRules ClassificationMethod = "pattern_rules"
	MethodGenerative   ClassificationMethod = "llm_classification"
)

// Classification is the result of resolving a user message to an intent.
// It is immutable once produced; a product is only present when the intent
// requires one.
type Classification struct {
	Intent       Intent
	Product      string
	Method       ClassificationMethod
	Confidence   float64
	ResponseTime time.Duration
	Cached       bool
}

// RequiresProduct reports whether the resolved intent needs a product term.
func (c Classification) RequiresProduct() bool {
	return c.Intent.RequiresProduct()
}
