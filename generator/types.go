package generator

import "time"

// Event types, in funnel order. Every session has exactly one landing event;
// product_view repeats; add_to_cart leads to either checkout_start+purchase
// or cart_abandoned.
const (
	EventTypeLanding       = "landing"
	EventTypeProductView   = "product_view"
	EventTypeAddToCart     = "add_to_cart"
	EventTypeCheckoutStart = "checkout_start"
	EventTypePurchase      = "purchase"
	EventTypeCartAbandoned = "cart_abandoned"
)

// Session is one simulated site visit. Immutable after generation; derived
// columns live on cleaner.Session.
type Session struct {
	SessionID     string    `json:"session_id"`
	CustomerID    string    `json:"customer_id"`
	SessionDate   time.Time `json:"session_date"`
	Device        string    `json:"device"`
	Channel       string    `json:"channel"`
	Country       string    `json:"country"`
	IsReturning   bool      `json:"is_returning"`
	PagesViewed   int       `json:"pages_viewed"`
	TimeOnSite    int       `json:"time_on_site"`
	AddedToCart   bool      `json:"added_to_cart"`
	CartAbandoned bool      `json:"cart_abandoned"`
	Converted     bool      `json:"converted"`
}

// Event is one interaction within a session. ProductID/ProductName are set
// only for product-scoped event types.
type Event struct {
	EventID     int64     `json:"event_id"`
	SessionID   string    `json:"session_id"`
	EventType   string    `json:"event_type"`
	EventTime   time.Time `json:"event_time"`
	ProductID   string    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
}

// TransactionLine is one product line of a completed order. All lines of one
// TransactionID share the same OrderTotal, which equals the sum of their
// TotalAmounts.
type TransactionLine struct {
	TransactionID   string    `json:"transaction_id"`
	SessionID       string    `json:"session_id"`
	CustomerID      string    `json:"customer_id"`
	TransactionDate time.Time `json:"transaction_date"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Category        string    `json:"category"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	TotalAmount     float64   `json:"total_amount"`
	OrderTotal      float64   `json:"order_total"`
	Device          string    `json:"device"`
	Channel         string    `json:"channel"`
	Country         string    `json:"country"`
}

// Dataset bundles the three generated tables.
type Dataset struct {
	Sessions     []Session
	Events       []Event
	Transactions []TransactionLine
}
