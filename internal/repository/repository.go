package repository

import (
	"context"
	"errors"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

// Sentinel errors shared by all repository implementations.
var (
	// ErrNotFound is returned by updates and deletes that matched no record.
	// Lookups return (nil, nil) for a missing record instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a uniqueness rule
	// (currently only the case-insensitive category name).
	ErrDuplicate = errors.New("duplicate record")
)

// Repository defines the storage operations behind the ledger mutation
// surface. A document store, SQL database or in-memory map are all valid
// backends; the engine only ever sees the entity shapes in models.
//
// The cascade operations (RenameCategory, DeleteCategory) are atomic: the
// category change and every dependent expense rewrite land together or not
// at all.
type Repository interface {
	// User operations. Users are never deleted.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Expense operations.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	ListExpensesByEvent(ctx context.Context, eventID string) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	DeleteExpenses(ctx context.Context, ids []string) (int, error)

	// Event operations.
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	AddEventMembers(ctx context.Context, eventID string, memberIDs []string) error

	// Category operations. Expenses reference categories by name, so the
	// rename and delete cascades rewrite or clear the category field on
	// every referencing expense. Both return the number of expenses touched.
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	RenameCategory(ctx context.Context, id, oldName, newName string) (int, error)
	DeleteCategory(ctx context.Context, id, name string) (int, error)
}
