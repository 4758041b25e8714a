package rank

import (
	"strings"

	"github.com/infohub-br/promoagent/internal/model"
)

// OfferLine renders one offer as a chat list line.
func OfferLine(o model.Offer) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(o.Product)
	b.WriteString(" no ")
	b.WriteString(o.Establishment)
	if o.City != "" {
		b.WriteString(" (")
		b.WriteString(o.City)
		if o.State != "" {
			b.WriteString("/")
			b.WriteString(o.State)
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(FormatBRL(o.Price))
	b.WriteString(", a ")
	b.WriteString(FormatDistance(o.DistanceKm))
	if !o.ValidTo.IsZero() {
		b.WriteString(", válida até ")
		b.WriteString(o.ValidTo.Format("02/01/2006"))
	}
	return b.String()
}

// OfferList renders ranked offers as chat list lines, one per offer.
func OfferList(offers []model.Offer) string {
	lines := make([]string, len(offers))
	for i, o := range offers {
		lines[i] = OfferLine(o)
	}
	return strings.Join(lines, "\n")
}
