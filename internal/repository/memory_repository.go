package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

// MemoryRepository implements the Repository interface with mutex-guarded
// maps. It backs the test suite and is a valid storage backend in its own
// right for single-process deployments. All values are copied on the way in
// and out so callers can never alias internal state.
type MemoryRepository struct {
	mu         sync.Mutex
	users      map[string]models.User
	userOrder  []string
	expenses   map[string]models.Expense
	events     map[string]models.Event
	eventOrder []string
	categories map[string]models.Category // keyed by lower(name)
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[string]models.User),
		expenses:   make(map[string]models.Expense),
		events:     make(map[string]models.Event),
		categories: make(map[string]models.Category),
	}
}

// User repository methods

func (r *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = copyUser(*user)
	r.userOrder = append(r.userOrder, user.ID)
	return nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u = copyUser(u)
	return &u, nil
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.userOrder {
		u := r.users[id]
		if u.Email != nil && *u.Email == email {
			u = copyUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) ListUsers(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		users = append(users, copyUser(r.users[id]))
	}
	return users, nil
}

func (r *MemoryRepository) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = user.Name
	cur.AvatarURL = user.AvatarURL
	cur.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = cur
	*user = copyUser(cur)
	return nil
}

// Expense repository methods

func (r *MemoryRepository) CreateExpense(_ context.Context, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}
	r.expenses[expense.ID] = copyExpense(*expense)
	return nil
}

func (r *MemoryRepository) GetExpense(_ context.Context, id string) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	if !ok {
		return nil, nil
	}
	e = copyExpense(e)
	return &e, nil
}

func (r *MemoryRepository) ListExpenses(_ context.Context) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listExpensesLocked(func(models.Expense) bool { return true }), nil
}

func (r *MemoryRepository) ListExpensesByEvent(_ context.Context, eventID string) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listExpensesLocked(func(e models.Expense) bool {
		return e.EventID != nil && *e.EventID == eventID
	}), nil
}

func (r *MemoryRepository) listExpensesLocked(keep func(models.Expense) bool) []models.Expense {
	expenses := []models.Expense{}
	for _, e := range r.expenses {
		if keep(e) {
			expenses = append(expenses, copyExpense(e))
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].ID < expenses[j].ID
	})
	return expenses
}

func (r *MemoryRepository) UpdateExpense(_ context.Context, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.expenses[expense.ID]
	if !ok {
		return ErrNotFound
	}
	expense.Date = cur.Date // creation timestamp is immutable
	r.expenses[expense.ID] = copyExpense(*expense)
	return nil
}

func (r *MemoryRepository) DeleteExpense(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r *MemoryRepository) DeleteExpenses(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := r.expenses[id]; ok {
			delete(r.expenses, id)
			deleted++
		}
	}
	return deleted, nil
}

// Event repository methods

func (r *MemoryRepository) CreateEvent(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	r.events[event.ID] = copyEvent(*event)
	r.eventOrder = append(r.eventOrder, event.ID)
	return nil
}

func (r *MemoryRepository) GetEvent(_ context.Context, id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	e = copyEvent(e)
	return &e, nil
}

func (r *MemoryRepository) ListEvents(_ context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]models.Event, 0, len(r.eventOrder))
	for _, id := range r.eventOrder {
		events = append(events, copyEvent(r.events[id]))
	}
	return events, nil
}

func (r *MemoryRepository) UpdateEvent(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.events[event.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = event.Name
	cur.MemberIDs = append([]string(nil), event.MemberIDs...)
	cur.UpdatedAt = time.Now().UTC()
	r.events[event.ID] = cur
	*event = copyEvent(cur)
	return nil
}

func (r *MemoryRepository) DeleteEvent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return ErrNotFound
	}
	delete(r.events, id)
	for i := range r.eventOrder {
		if r.eventOrder[i] == id {
			r.eventOrder = append(r.eventOrder[:i], r.eventOrder[i+1:]...)
			break
		}
	}
	// Mirror ON DELETE SET NULL on expenses.event_id.
	for eid, e := range r.expenses {
		if e.EventID != nil && *e.EventID == id {
			e.EventID = nil
			r.expenses[eid] = e
		}
	}
	return nil
}

func (r *MemoryRepository) AddEventMembers(_ context.Context, eventID string, memberIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return ErrNotFound
	}
	existing := make(map[string]bool, len(event.MemberIDs))
	for _, id := range event.MemberIDs {
		existing[id] = true
	}
	for _, id := range memberIDs {
		if !existing[id] {
			event.MemberIDs = append(event.MemberIDs, id)
			existing[id] = true
		}
	}
	r.events[eventID] = event
	return nil
}

// Category repository methods

func (r *MemoryRepository) CreateCategory(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(category.Name)
	if _, exists := r.categories[key]; exists {
		return ErrDuplicate
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.categories[key] = *category
	return nil
}

func (r *MemoryRepository) GetCategoryByName(_ context.Context, name string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) ListCategories(_ context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

func (r *MemoryRepository) RenameCategory(_ context.Context, id, oldName, newName string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	oldKey := strings.ToLower(oldName)
	cat, ok := r.categories[oldKey]
	if !ok || cat.ID != id {
		return 0, ErrNotFound
	}
	// A concurrent creator may have taken the target name since the caller's
	// collision check; overwriting it would destroy that category.
	if existing, taken := r.categories[strings.ToLower(newName)]; taken && existing.ID != id {
		return 0, ErrDuplicate
	}
	delete(r.categories, oldKey)
	cat.Name = newName
	r.categories[strings.ToLower(newName)] = cat

	updated := 0
	for eid, e := range r.expenses {
		if e.Category != nil && strings.EqualFold(*e.Category, oldName) {
			name := newName
			e.Category = &name
			r.expenses[eid] = e
			updated++
		}
	}
	return updated, nil
}

func (r *MemoryRepository) DeleteCategory(_ context.Context, id, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(name)
	cat, ok := r.categories[key]
	if !ok || cat.ID != id {
		return 0, ErrNotFound
	}
	delete(r.categories, key)

	cleared := 0
	for eid, e := range r.expenses {
		if e.Category != nil && strings.EqualFold(*e.Category, name) {
			e.Category = nil
			r.expenses[eid] = e
			cleared++
		}
	}
	return cleared, nil
}

// Copy helpers so stored values never share slices or pointers with callers.

func copyUser(u models.User) models.User {
	if u.Email != nil {
		email := *u.Email
		u.Email = &email
	}
	return u
}

func copyExpense(e models.Expense) models.Expense {
	e.ParticipantIDs = append([]string(nil), e.ParticipantIDs...)
	if e.EventID != nil {
		id := *e.EventID
		e.EventID = &id
	}
	if e.Category != nil {
		name := *e.Category
		e.Category = &name
	}
	return e
}

func copyEvent(e models.Event) models.Event {
	e.MemberIDs = append([]string(nil), e.MemberIDs...)
	return e
}
