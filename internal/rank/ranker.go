// Package rank orders candidate offers for presentation.
package rank

import (
	"sort"

	"github.com/infohub-br/promoagent/internal/model"
)

// Offers returns a new slice sorted by ascending price, ties broken by
// ascending distance, truncated to max. The sort is stable so equal offers
// keep their input order. The input slice is not modified.
func Offers(offers []model.Offer, max int) []model.Offer {
	ranked := make([]model.Offer, len(offers))
	copy(ranked, offers)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Price != ranked[j].Price {
			return ranked[i].Price < ranked[j].Price
		}
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
