package entity

import "time"

// Ride event types recorded to the audit trail.
const (
	EventRidePosted    = "ride_posted"
	EventRideDeleted   = "ride_soft_deleted"
	EventRideRestored  = "ride_restored"
	EventSeatRequested = "seat_requested"
	EventSeatAccepted  = "seat_accepted"
	EventSeatDeclined  = "seat_declined"
)

// RideEvent is one row of the relational audit trail. Detail carries a
// short human-readable context string, including partial-failure notes
// from the best-effort multi-document flows.
type RideEvent struct {
	ID        uint      `gorm:"primaryKey"`
	EventType string    `gorm:"column:event_type;index"`
	RideID    string    `gorm:"column:ride_id;index"`
	ActorID   string    `gorm:"column:actor_id"`
	Detail    string    `gorm:"column:detail"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (RideEvent) TableName() string {
	return "ride_events"
}
