package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Jegatheesh001/billzen-server/internal/ledger"
	"github.com/Jegatheesh001/billzen-server/internal/models"
	"github.com/Jegatheesh001/billzen-server/internal/repository"
)

// Expense methods

func (s *DefaultService) ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error) {
	var (
		expenses []models.Expense
		err      error
	)
	if eventID != "" {
		expenses, err = s.repo.ListExpensesByEvent(ctx, eventID)
	} else {
		expenses, err = s.repo.ListExpenses(ctx)
	}
	if err != nil {
		return nil, &StoreError{Op: "list expenses", Err: err}
	}
	return expenses, nil
}

func (s *DefaultService) CreateExpense(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error) {
	expense := &models.Expense{
		Description:    strings.TrimSpace(req.Description),
		Amount:         req.Amount,
		PaidByID:       req.PaidByID,
		ParticipantIDs: req.ParticipantIDs,
		EventID:        req.EventID,
		Category:       req.Category,
	}
	if err := s.validateExpense(ctx, expense); err != nil {
		return nil, err
	}

	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, &StoreError{Op: "create expense", Err: err}
	}

	s.syncEventMembers(ctx, expense)
	return expense, nil
}

// UpdateExpense applies a partial update. Pointer fields that are nil and
// Patch fields that were absent from the payload leave the stored value
// unchanged; a Patch carrying null clears the field entirely.
func (s *DefaultService) UpdateExpense(ctx context.Context, id string, req models.UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "get expense", Err: err}
	}
	if expense == nil {
		return nil, ErrNotFound
	}

	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.PaidByID != nil {
		expense.PaidByID = *req.PaidByID
	}
	if req.ParticipantIDs != nil {
		expense.ParticipantIDs = req.ParticipantIDs
	}
	expense.EventID = req.EventID.Apply(expense.EventID)
	expense.Category = req.Category.Apply(expense.Category)

	if err := s.validateExpense(ctx, expense); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateExpense(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "update expense", Err: err}
	}

	s.syncEventMembers(ctx, expense)
	return expense, nil
}

func (s *DefaultService) DeleteExpense(ctx context.Context, id string) error {
	err := s.repo.DeleteExpense(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "delete expense", Err: err}
	}
	return nil
}

func (s *DefaultService) DeleteExpenses(ctx context.Context, ids []string) (int, error) {
	deleted, err := s.repo.DeleteExpenses(ctx, ids)
	if err != nil {
		return 0, &StoreError{Op: "delete expenses", Err: err}
	}
	return deleted, nil
}

// validateExpense enforces the mutation-surface rules before any write:
// non-empty description, positive amount, a non-empty duplicate-free
// participant set, and no dangling references. The category, if set, is
// normalized and guaranteed to exist.
func (s *DefaultService) validateExpense(ctx context.Context, expense *models.Expense) error {
	if err := validateName("description", expense.Description); err != nil {
		return err
	}
	if expense.Amount <= 0 {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if len(expense.ParticipantIDs) == 0 {
		return &ledger.ValidationError{Field: "participantIds", Reason: "must not be empty"}
	}
	seen := make(map[string]bool, len(expense.ParticipantIDs))
	for _, id := range expense.ParticipantIDs {
		if seen[id] {
			return &ledger.ValidationError{Field: "participantIds", Reason: "duplicate participant " + id}
		}
		seen[id] = true
	}

	if err := s.checkUsersExist(ctx, append([]string{expense.PaidByID}, expense.ParticipantIDs...)); err != nil {
		return err
	}

	if expense.EventID != nil {
		event, err := s.repo.GetEvent(ctx, *expense.EventID)
		if err != nil {
			return &StoreError{Op: "get event", Err: err}
		}
		if event == nil {
			return &ReferentialError{Entity: "event", ID: *expense.EventID}
		}
	}

	if expense.Category != nil {
		name := strings.TrimSpace(*expense.Category)
		if err := validateName("category", name); err != nil {
			return err
		}
		canonical, err := s.ensureCategoryName(ctx, name)
		if err != nil {
			return err
		}
		expense.Category = &canonical
	}
	return nil
}

// syncEventMembers adds the payer and participants of an event-scoped expense
// to the event's member set. Membership is a convenience view, so a failure
// here is logged and does not fail the expense write.
func (s *DefaultService) syncEventMembers(ctx context.Context, expense *models.Expense) {
	if expense.EventID == nil {
		return
	}
	members := append([]string{expense.PaidByID}, expense.ParticipantIDs...)
	if err := s.repo.AddEventMembers(ctx, *expense.EventID, members); err != nil {
		slog.Warn("failed to sync event members",
			"event_id", *expense.EventID, "expense_id", expense.ID, "error", err)
	}
}

// Category methods

func (s *DefaultService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list categories", Err: err}
	}
	return categories, nil
}

func (s *DefaultService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName("name", name); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	err := s.repo.CreateCategory(ctx, category)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateCategory
	}
	if err != nil {
		return nil, &StoreError{Op: "create category", Err: err}
	}
	return category, nil
}

// RenameCategory renames a category and atomically rewrites the category
// field on every expense that referenced the old name. A rename whose new
// name case-insensitively equals the old one is a no-op success; a collision
// with a different existing category is rejected. Returns the canonical new
// name and the number of expenses rewritten.
func (s *DefaultService) RenameCategory(ctx context.Context, req models.RenameCategoryRequest) (string, int, error) {
	oldName := strings.TrimSpace(req.OldName)
	newName := strings.TrimSpace(req.NewName)
	if err := validateName("newName", newName); err != nil {
		return "", 0, err
	}

	category, err := s.repo.GetCategoryByName(ctx, oldName)
	if err != nil {
		return "", 0, &StoreError{Op: "get category", Err: err}
	}
	if category == nil {
		return "", 0, ErrNotFound
	}

	if strings.EqualFold(category.Name, newName) {
		return category.Name, 0, nil
	}

	existing, err := s.repo.GetCategoryByName(ctx, newName)
	if err != nil {
		return "", 0, &StoreError{Op: "get category", Err: err}
	}
	if existing != nil && existing.ID != category.ID {
		return "", 0, ErrDuplicateCategory
	}

	updated, err := s.repo.RenameCategory(ctx, category.ID, category.Name, newName)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent creator took the new name between the check above and
		// the rename.
		return "", 0, ErrDuplicateCategory
	}
	if err != nil {
		return "", 0, &StoreError{Op: "rename category", Err: err}
	}
	return newName, updated, nil
}

// DeleteCategory removes a category and atomically clears the category field
// on every expense that referenced it. Returns the number of expenses cleared.
func (s *DefaultService) DeleteCategory(ctx context.Context, name string) (int, error) {
	category, err := s.repo.GetCategoryByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return 0, &StoreError{Op: "get category", Err: err}
	}
	if category == nil {
		return 0, ErrNotFound
	}

	cleared, err := s.repo.DeleteCategory(ctx, category.ID, category.Name)
	if err != nil {
		return 0, &StoreError{Op: "delete category", Err: err}
	}
	return cleared, nil
}

// ensureCategoryName guarantees a category with the given name exists and
// returns its canonical spelling. The check-then-act sequence can race with a
// concurrent creator; a creation conflict is treated as "already exists".
func (s *DefaultService) ensureCategoryName(ctx context.Context, name string) (string, error) {
	category, err := s.repo.GetCategoryByName(ctx, name)
	if err != nil {
		return "", &StoreError{Op: "get category", Err: err}
	}
	if category != nil {
		return category.Name, nil
	}

	err = s.repo.CreateCategory(ctx, &models.Category{Name: name})
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent creator won the race; same outcome.
		if category, err = s.repo.GetCategoryByName(ctx, name); err == nil && category != nil {
			return category.Name, nil
		}
		return name, nil
	}
	if err != nil {
		return "", &StoreError{Op: "create category", Err: err}
	}
	return name, nil
}

// Balance and settlement methods

// GetDebts recomputes every user's net balance from the current snapshot of
// users and expenses.
func (s *DefaultService) GetDebts(ctx context.Context) ([]models.Debt, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list users", Err: err}
	}
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list expenses", Err: err}
	}
	return ledger.ComputeBalances(expenses, users), nil
}

// RecordSettlement composes a settlement expense from payer to recipient and
// persists it through the ordinary expense-creation path.
func (s *DefaultService) RecordSettlement(ctx context.Context, req models.RecordSettlementRequest) (*models.Expense, error) {
	payer, err := s.repo.GetUserByID(ctx, req.PayerID)
	if err != nil {
		return nil, &StoreError{Op: "get user", Err: err}
	}
	if payer == nil {
		return nil, &ReferentialError{Entity: "user", ID: req.PayerID}
	}
	recipient, err := s.repo.GetUserByID(ctx, req.RecipientID)
	if err != nil {
		return nil, &StoreError{Op: "get user", Err: err}
	}
	if recipient == nil {
		return nil, &ReferentialError{Entity: "user", ID: req.RecipientID}
	}

	draft, err := ledger.ComposeSettlement(ctx, req.PayerID, req.RecipientID, req.Amount,
		payer.Name, recipient.Name, s.ensureCategoryName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateExpense(ctx, draft); err != nil {
		return nil, &StoreError{Op: "create expense", Err: err}
	}
	return draft, nil
}

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ledger.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
