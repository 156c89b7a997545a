package entities

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`     // Account enabled
	DailyLimit   int       `json:"daily_limit"`   // Max relayed messages per day (0 = unlimited)
	MonthlyLimit int       `json:"monthly_limit"` // Max relayed messages per month (0 = unlimited)
	CreatedAt    time.Time `json:"created_at"`
}
