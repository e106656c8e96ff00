// model/cart.go
package model

import "time"

// CartItem is a user's saved intent to reserve a specific vehicle.
// Unique per (cart, vehicle); duplicates are rejected before any insert.
type CartItem struct {
	ID        int64     `json:"id"`
	CartID    string    `json:"cart_id"`
	UserID    int64     `json:"user_id"`
	VehicleID int64     `json:"vehicle_id"`
	CreatedAt time.Time `json:"created_at"`
}
