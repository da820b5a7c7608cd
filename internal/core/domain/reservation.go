package domain

import "time"

// ReservationStatus is owned by the backend; the front end only ever
// creates reservations in StatusPending.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Customer is created transiently by the reservation wizard.
type Customer struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// RestaurantTable is a bookable table as reported by the backend.
type RestaurantTable struct {
	ID          int64  `json:"id"`
	TableNumber int    `json:"tableNumber"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
}

// Reservation links a customer to a table for a time slot. Dates and times
// stay in the backend's wire format (YYYY-MM-DD, HH:MM).
type Reservation struct {
	ID              int64             `json:"id,omitempty"`
	CustomerID      int64             `json:"customerId"`
	TableID         int64             `json:"tableId"`
	ReservationDate string            `json:"reservationDate"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	PartySize       int               `json:"partySize"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests string            `json:"specialRequests,omitempty"`

	Customer *Customer        `json:"customer,omitempty"`
	Table    *RestaurantTable `json:"table,omitempty"`
}

// Restaurant is the read-only listing entry shown on the home page.
type Restaurant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	PriceRange  string  `json:"priceRange,omitempty"`
}

// AvailabilityQuery selects tables free for a slot.
type AvailabilityQuery struct {
	Date      string
	StartTime string
	EndTime   string
	PartySize int
}

// OrphanedCustomer records a customer left behind by a reservation that
// failed after the customer was created, when the compensating delete also
// failed.
type OrphanedCustomer struct {
	CustomerID int64     `json:"customer_id" bson:"customer_id"`
	SessionID  string    `json:"session_id" bson:"session_id"`
	Reason     string    `json:"reason" bson:"reason"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}
