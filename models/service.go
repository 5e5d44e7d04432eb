package models

import "time"

// Service is a bookable marketplace listing; planner items reference one
// through SourceID.
type Service struct {
	ServiceID   string    `json:"serviceId" bson:"serviceId"`
	SupplierID  string    `json:"supplierId" bson:"supplierId"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	Deleted     bool      `json:"-" bson:"deleted,omitempty"`
}

// Notification is a user-facing message produced by backend events.
type Notification struct {
	NotificationID string    `json:"notificationId" bson:"notificationId"`
	UserID         string    `json:"userId" bson:"userId"`
	Kind           string    `json:"kind" bson:"kind"`
	Message        string    `json:"message" bson:"message"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}
