// model/session.go
package model

import "time"

// Session is the server-side record behind a sliding-expiry login.
// ExpiresAt moves forward on every authenticated request.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CartID    string    `json:"cart_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
