// Package monitor implements the MONITOR_REGISTER subscription registry:
// per-facility sets of subscribers with an expiry, fanned out to on every
// mutation via a MONITOR_UPDATE push.
package monitor

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a single peer's registration for updates on one
// facility, valid until Expiry.
type Subscription struct {
	ID       uuid.UUID
	PeerAddr string
	Facility string
	Expiry   time.Time
}

// Expired reports whether the subscription's expiry has passed as of now.
func (s *Subscription) Expired(now time.Time) bool {
	return !now.Before(s.Expiry)
}

// NewSubscription creates a subscription for peerAddr on facility, expiring
// durationSeconds after now.
func NewSubscription(peerAddr, facility string, now time.Time, durationSeconds int) Subscription {
	return Subscription{
		ID:       uuid.New(),
		PeerAddr: peerAddr,
		Facility: facility,
		Expiry:   now.Add(time.Duration(durationSeconds) * time.Second),
	}
}
