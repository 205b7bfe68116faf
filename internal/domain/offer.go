package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// OfferStatus enumerates lifecycle states for offers.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusDeclined OfferStatus = "declined"
)

const (
	MaxOfferTitleLength       = 120
	MaxOfferDescriptionLength = 1000
)

// Offer is extended by an admin to a single user.
type Offer struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      OfferStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var offerTransitions = map[OfferStatus][]OfferStatus{
	OfferStatusPending:  {OfferStatusAccepted, OfferStatusDeclined},
	OfferStatusAccepted: {},
	OfferStatusDeclined: {},
}

// CanTransition reports whether an offer may move from current to next.
func CanTransition(current, next OfferStatus) bool {
	for _, candidate := range offerTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s OfferStatus) IsTerminal() bool {
	return len(offerTransitions[s]) == 0
}

// NormalizeOffer trims and clamps free-text fields and forces the initial status.
// Whatever status the caller supplied is discarded.
func NormalizeOffer(o *Offer) {
	o.Title = clampRunes(strings.TrimSpace(o.Title), MaxOfferTitleLength)
	o.Description = clampRunes(strings.TrimSpace(o.Description), MaxOfferDescriptionLength)
	o.Status = OfferStatusPending
}

func clampRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}
