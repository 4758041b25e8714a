package model

import "time"

// Offer is a priced, located, time-bounded promotion supplied by the offer
// source. Distance is pre-computed from the user's registered location.
type Offer struct {
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	Product       string    `json:"product"`
	Establishment string    `json:"establishment"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Price         float64   `json:"price"`
	DistanceKm    float64   `json:"distance_km"`
}
