package models

import "time"

// Planner statuses follow the trip lifecycle.
const (
	PlannerStatusDraft     = "draft"
	PlannerStatusPlanning  = "planning"
	PlannerStatusConfirmed = "confirmed"
	PlannerStatusPaid      = "paid"
	PlannerStatusCompleted = "completed"
)

// Payment options for a line item.
const (
	PaymentCash         = "cash"
	PaymentInstallments = "installments"
)

// Item types.
const (
	ItemTypeProduct = "product"
	ItemTypeService = "service"
)

// Planner is one trip a user is organizing. It owns the itinerary items
// and exactly one cart; totals are recomputed on every mutation and never
// stored stale.
type Planner struct {
	PlannerID      string        `json:"plannerId" bson:"plannerId"`
	UserID         string        `json:"userId" bson:"userId"`
	Name           string        `json:"name" bson:"name"`
	Destination    string        `json:"destination" bson:"destination"`
	Description    string        `json:"description,omitempty" bson:"description,omitempty"`
	Status         string        `json:"status" bson:"status"`
	StartDate      *time.Time    `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate        *time.Time    `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Currency       string        `json:"currency" bson:"currency"`
	Travelers      int           `json:"travelers" bson:"travelers"`
	Budget         float64       `json:"budget" bson:"budget"`
	TotalEstimated float64       `json:"totalEstimated" bson:"totalEstimated"`
	Items          []PlannerItem `json:"items" bson:"items"`
	Cart           PlannerCart   `json:"cart" bson:"cart"`
	CreatedAt      time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt" bson:"updatedAt"`
	Deleted        bool          `json:"-" bson:"deleted,omitempty"`
}

// PlannerItem is a bookable unit placed on the trip. An item with no
// planned date is "unscheduled": excluded from day views, still counted
// in cost totals.
type PlannerItem struct {
	ItemID         string     `json:"itemId" bson:"itemId"`
	ItemType       string     `json:"itemType" bson:"itemType"` // product | service
	SourceID       string     `json:"sourceId" bson:"sourceId"`
	Name           string     `json:"name" bson:"name"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	Price          float64    `json:"price" bson:"price"`
	PriceSecondary float64    `json:"priceSecondary" bson:"priceSecondary"`
	Quantity       int        `json:"quantity" bson:"quantity"`
	PaymentOption  string     `json:"paymentOption" bson:"paymentOption"` // cash | installments
	Category       string     `json:"category,omitempty" bson:"category,omitempty"`
	PlannedDate    *time.Time `json:"plannedDate,omitempty" bson:"plannedDate,omitempty"`
	PlannedTime    string     `json:"plannedTime,omitempty" bson:"plannedTime,omitempty"`
	Priority       string     `json:"priority,omitempty" bson:"priority,omitempty"`
	Confirmed      bool       `json:"confirmed" bson:"confirmed"`
	Paid           bool       `json:"paid" bson:"paid"`
	Notes          string     `json:"notes,omitempty" bson:"notes,omitempty"`
	Image          string     `json:"image,omitempty" bson:"image,omitempty"`
	Location       string     `json:"location,omitempty" bson:"location,omitempty"`
	Duration       string     `json:"duration,omitempty" bson:"duration,omitempty"`
	AddedAt        time.Time  `json:"addedAt" bson:"addedAt"`
}

// PlannerCartItem is a priced line in the checkout projection.
type PlannerCartItem struct {
	ItemID        string    `json:"itemId" bson:"itemId"`
	ItemType      string    `json:"itemType" bson:"itemType"`
	SourceID      string    `json:"sourceId" bson:"sourceId"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64   `json:"price" bson:"price"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	PaymentOption string    `json:"paymentOption" bson:"paymentOption"`
	Category      string    `json:"category,omitempty" bson:"category,omitempty"`
	AddedAt       time.Time `json:"addedAt" bson:"addedAt"`
}

// PlannerCart aggregates the planner's purchasable lines.
// Invariant: Total = Subtotal + Taxes - Discount, Subtotal = Σ(price×qty).
type PlannerCart struct {
	Items     []PlannerCartItem `json:"items" bson:"items"`
	Subtotal  float64           `json:"subtotal" bson:"subtotal"`
	Taxes     float64           `json:"taxes" bson:"taxes"`
	Discount  float64           `json:"discount" bson:"discount"`
	Total     float64           `json:"total" bson:"total"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// PlannerDay groups dated items for timeline rendering. Derived, never stored.
type PlannerDay struct {
	Date  string        `json:"date"` // YYYY-MM-DD
	Items []PlannerItem `json:"items"`
	Total float64       `json:"total"`
}

// PlannerSummary is the fixed-shape aggregate over a planner's items.
type PlannerSummary struct {
	ItemCount      int     `json:"itemCount"`
	TotalCost      float64 `json:"totalCost"`
	TotalPaid      float64 `json:"totalPaid"`
	PendingPayment float64 `json:"pendingPayment"`
	DaysPlanned    int     `json:"daysPlanned"`
	ConfirmedItems int     `json:"confirmedItems"`
	PendingItems   int     `json:"pendingItems"`
}

// Installment is one scheduled payment in a flat split.
type Installment struct {
	Number  int       `json:"number"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"dueDate"`
	Status  string    `json:"status"` // pending | paid | overdue
}

// PaymentPlan is the 30%-upfront schedule for itinerary checkout.
type PaymentPlan struct {
	Upfront      float64       `json:"upfront"`
	Installments []Installment `json:"installments"`
	Total        float64       `json:"total"`
}

// PlannerCreateRequest carries the fields a user supplies for a new trip.
type PlannerCreateRequest struct {
	Name        string     `json:"name"`
	Destination string     `json:"destination"`
	Description string     `json:"description"`
	Currency    string     `json:"currency"`
	Travelers   int        `json:"travelers"`
	Budget      float64    `json:"budget"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// PlannerPatch is a partial update; nil fields are left untouched.
type PlannerPatch struct {
	Name           *string        `json:"name,omitempty" bson:"name,omitempty"`
	Destination    *string        `json:"destination,omitempty" bson:"destination,omitempty"`
	Description    *string        `json:"description,omitempty" bson:"description,omitempty"`
	Status         *string        `json:"status,omitempty" bson:"status,omitempty"`
	StartDate      *time.Time     `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate        *time.Time     `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Currency       *string        `json:"currency,omitempty" bson:"currency,omitempty"`
	Travelers      *int           `json:"travelers,omitempty" bson:"travelers,omitempty"`
	Budget         *float64       `json:"budget,omitempty" bson:"budget,omitempty"`
	TotalEstimated *float64       `json:"totalEstimated,omitempty" bson:"totalEstimated,omitempty"`
	Items          *[]PlannerItem `json:"items,omitempty" bson:"items,omitempty"`
	Cart           *PlannerCart   `json:"cart,omitempty" bson:"cart,omitempty"`
}

// ItemRequest carries the fields for placing an item on a planner.
type ItemRequest struct {
	PlannerID   string     `json:"plannerId"`
	ItemType    string     `json:"itemType"`
	SourceID    string     `json:"sourceId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	PlannedDate *time.Time `json:"plannedDate,omitempty"`
	PlannedTime string     `json:"plannedTime"`
	Priority    string     `json:"priority"`
	Confirmed   bool       `json:"confirmed"`
	Paid        bool       `json:"paid"`
	Notes       string     `json:"notes"`
	Image       string     `json:"image"`
	Location    string     `json:"location"`
	Duration    string     `json:"duration"`
}

// PlannerItemPatch is a partial item update; nil fields are left untouched.
type PlannerItemPatch struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Quantity      *int       `json:"quantity,omitempty"`
	PaymentOption *string    `json:"paymentOption,omitempty"`
	Category      *string    `json:"category,omitempty"`
	PlannedDate   *time.Time `json:"plannedDate,omitempty"`
	PlannedTime   *string    `json:"plannedTime,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	Confirmed     *bool      `json:"confirmed,omitempty"`
	Paid          *bool      `json:"paid,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Duration      *string    `json:"duration,omitempty"`
}

// CartMigration converts a legacy cart into a fresh planner.
type CartMigration struct {
	Name        string            `json:"name"`
	Destination string            `json:"destination"`
	Items       []PlannerCartItem `json:"items"`
}
