package order

import "time"

// Item is an order line. Only what payment handling needs is modelled.
type Item struct {
	ID           uint
	ProductID    uint
	Quantity     int
	Downloadable bool
}

// Note is one entry of the order's append-only audit log. CustomerVisible
// notes are shown to the shopper; the rest are for store staff.
type Note struct {
	ID              uint
	Content         string
	CustomerVisible bool
	CreatedAt       time.Time
}
