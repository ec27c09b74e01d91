package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// Layouts of the Date and Time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	MinPeopleCount         = 1
	MaxPeopleCount         = 20
	MaxSpecialRequestsSize = 500
)

// ParseReservationStatus returns the status named by s, or false when s is
// not one of the known statuses.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch status := ReservationStatus(s); status {
	case ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusCompleted:
		return status, true
	}
	return "", false
}

// Reservation is a table booking made by a user at a restaurant.
// Date and Time are stored in their wire layouts so that lexical order
// matches chronological order on every backend.
type Reservation struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	UserID          uint              `json:"user_id" gorm:"not null;index"`
	RestaurantID    uint              `json:"restaurant_id" gorm:"not null;index"`
	Date            string            `json:"date" gorm:"size:10;not null;index"`
	Time            string            `json:"time" gorm:"size:5;not null"`
	PeopleCount     int               `json:"people_count" gorm:"not null;check:people_count >= 1 AND people_count <= 20"`
	Status          ReservationStatus `json:"status" gorm:"type:varchar(20);not null;default:'confirmed';index;check:status IN ('confirmed','cancelled','completed')"`
	SpecialRequests string            `json:"special_requests" gorm:"size:500"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Relations
	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Restaurant *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// reservationTransitions lists the allowed next states for each status.
// Statuses without an entry are terminal.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusConfirmed: {ReservationStatusCancelled, ReservationStatusCompleted},
}

// CanTransition reports whether a reservation may move from one status to another.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further changes are allowed.
func (r *Reservation) IsTerminal() bool {
	return len(reservationTransitions[r.Status]) == 0
}
