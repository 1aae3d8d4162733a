package models

import (
	"time"
)

// User represents a member of the expense-sharing group.
// Users are never hard-deleted; expenses keep referencing them for as long
// as they exist.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AvatarURL string    `db:"avatar_url" json:"avatarUrl"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Expense represents a cost paid by one user on behalf of a set of participants.
// Category references a Category by name, not by id; category renames cascade
// through every referencing expense. EventID and Category are absent (nil) when
// unset, never empty strings — presence is the "explicitly cleared" signal for
// partial updates.
type Expense struct {
	ID             string    `db:"id" json:"id"`
	Description    string    `db:"description" json:"description"`
	Amount         float64   `db:"amount" json:"amount"`
	PaidByID       string    `db:"paid_by_id" json:"paidById"`
	ParticipantIDs []string  `db:"-" json:"participantIds"`
	EventID        *string   `db:"event_id" json:"eventId,omitempty"`
	Category       *string   `db:"category" json:"category,omitempty"`
	Date           time.Time `db:"date" json:"date"`
}

// Event is a grouping label for expenses. It carries no financial meaning of
// its own; balances are always computed over the full expense set.
type Event struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	MemberIDs []string  `db:"-" json:"memberIds"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Category is a spending label. Names are unique case-insensitively.
type Category struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Debt is a user's net position, derived on demand from the current user and
// expense sets and never persisted. Positive balance means others owe this
// user; negative means this user owes others.
type Debt struct {
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName"`
	AvatarURL string  `json:"avatarUrl"`
	Balance   float64 `json:"balance"`
}
