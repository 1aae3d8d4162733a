package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
}

type UpdateUserRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type CreateExpenseRequest struct {
	Description    string   `json:"description" binding:"required"`
	Amount         float64  `json:"amount" binding:"required,gt=0"`
	PaidByID       string   `json:"paidById" binding:"required"`
	ParticipantIDs []string `json:"participantIds" binding:"required,min=1"`
	EventID        *string  `json:"eventId"`
	Category       *string  `json:"category"`
}

// UpdateExpenseRequest is a partial update. Pointer fields follow the usual
// nil-means-unchanged convention; EventID and Category are Patch fields
// because "cleared" and "unchanged" must stay distinguishable for them.
type UpdateExpenseRequest struct {
	Description    *string       `json:"description"`
	Amount         *float64      `json:"amount"`
	PaidByID       *string       `json:"paidById"`
	ParticipantIDs []string      `json:"participantIds"`
	EventID        Patch[string] `json:"eventId"`
	Category       Patch[string] `json:"category"`
}

type BulkDeleteExpensesRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type CreateEventRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds"`
}

type UpdateEventRequest struct {
	Name      *string  `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameCategoryRequest struct {
	OldName string `json:"oldName" binding:"required"`
	NewName string `json:"newName" binding:"required"`
}

type RecordSettlementRequest struct {
	PayerID     string  `json:"payerId" binding:"required"`
	RecipientID string  `json:"recipientId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type UserResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user,omitempty"`
}

type UsersResponse struct {
	Status string `json:"status"`
	Users  []User `json:"users"`
}

type ExpenseResponse struct {
	Status  string   `json:"status"`
	Expense *Expense `json:"expense,omitempty"`
}

type ExpensesResponse struct {
	Status   string    `json:"status"`
	Expenses []Expense `json:"expenses"`
}

type EventResponse struct {
	Status string `json:"status"`
	Event  *Event `json:"event,omitempty"`
}

type EventsResponse struct {
	Status string  `json:"status"`
	Events []Event `json:"events"`
}

type CategoriesResponse struct {
	Status     string     `json:"status"`
	Categories []Category `json:"categories"`
}

type CategoryResponse struct {
	Status   string    `json:"status"`
	Category *Category `json:"category,omitempty"`
}

// RenameCategoryResponse reports how many expenses the rename cascade rewrote.
type RenameCategoryResponse struct {
	Status          string `json:"status"`
	Name            string `json:"name"`
	UpdatedExpenses int    `json:"updatedExpenses"`
}

type DeleteCategoryResponse struct {
	Status          string `json:"status"`
	ClearedExpenses int    `json:"clearedExpenses"`
}

type DebtsResponse struct {
	Status string `json:"status"`
	Debts  []Debt `json:"debts"`
}

type DeletedResponse struct {
	Status  string `json:"status"`
	Deleted int    `json:"deleted"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
