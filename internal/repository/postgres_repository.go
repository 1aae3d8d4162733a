package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

// PostgresRepository implements the Repository interface using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// User repository methods

func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, name, avatar_url, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.AvatarURL, user.Email, user.Password, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users in creation order. The balance engine relies on
// this order being stable to break ties between equal balances.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at, id`)
	return users, err
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, avatar_url = $2, updated_at = $3 WHERE id = $4`,
		user.Name, user.AvatarURL, user.UpdatedAt, user.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Expense repository methods

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (id, description, amount, paid_by_id, event_id, category, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, expense.ID, expense.Description, expense.Amount, expense.PaidByID,
			expense.EventID, expense.Category, expense.Date)
		if err != nil {
			return err
		}
		return insertParticipants(ctx, tx, expense.ID, expense.ParticipantIDs)
	})
}

func (r *PostgresRepository) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.GetContext(ctx, &expense, `SELECT * FROM expenses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Expense not found
		}
		return nil, err
	}
	err = r.db.SelectContext(ctx, &expense.ParticipantIDs,
		`SELECT user_id FROM expense_participants WHERE expense_id = $1 ORDER BY user_id`, id)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return r.listExpenses(ctx, `SELECT * FROM expenses ORDER BY date DESC, id`)
}

func (r *PostgresRepository) ListExpensesByEvent(ctx context.Context, eventID string) ([]models.Expense, error) {
	return r.listExpenses(ctx, `SELECT * FROM expenses WHERE event_id = $1 ORDER BY date DESC, id`, eventID)
}

func (r *PostgresRepository) listExpenses(ctx context.Context, query string, args ...interface{}) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	q, qargs, err := sqlx.In(`SELECT expense_id, user_id FROM expense_participants WHERE expense_id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make(map[string][]string, len(expenses))
	for rows.Next() {
		var expenseID, userID string
		if err := rows.Scan(&expenseID, &userID); err != nil {
			return nil, err
		}
		participants[expenseID] = append(participants[expenseID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].ParticipantIDs = participants[expenses[i].ID]
	}
	return expenses, nil
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE expenses
			SET description = $1, amount = $2, paid_by_id = $3, event_id = $4, category = $5
			WHERE id = $6
		`, expense.Description, expense.Amount, expense.PaidByID,
			expense.EventID, expense.Category, expense.ID)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM expense_participants WHERE expense_id = $1`, expense.ID)
		if err != nil {
			return err
		}
		return insertParticipants(ctx, tx, expense.ID, expense.ParticipantIDs)
	})
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) DeleteExpenses(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`DELETE FROM expenses WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Event repository methods

func (r *PostgresRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`, event.ID, event.Name, event.CreatedAt, event.UpdatedAt)
		if err != nil {
			return err
		}
		return insertEventMembers(ctx, tx, event.ID, event.MemberIDs)
	})
}

func (r *PostgresRepository) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event, `SELECT * FROM events WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Event not found
		}
		return nil, err
	}
	err = r.db.SelectContext(ctx, &event.MemberIDs,
		`SELECT user_id FROM event_members WHERE event_id = $1 ORDER BY user_id`, id)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, `SELECT * FROM events ORDER BY created_at, id`); err != nil {
		return nil, err
	}
	for i := range events {
		err := r.db.SelectContext(ctx, &events[i].MemberIDs,
			`SELECT user_id FROM event_members WHERE event_id = $1 ORDER BY user_id`, events[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE events SET name = $1, updated_at = $2 WHERE id = $3`,
			event.Name, event.UpdatedAt, event.ID)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM event_members WHERE event_id = $1`, event.ID)
		if err != nil {
			return err
		}
		return insertEventMembers(ctx, tx, event.ID, event.MemberIDs)
	})
}

// DeleteEvent removes the event; expenses referencing it fall back to no event
// via ON DELETE SET NULL on expenses.event_id.
func (r *PostgresRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) AddEventMembers(ctx context.Context, eventID string, memberIDs []string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, userID := range memberIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO event_members (event_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, eventID, userID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Category repository methods

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`,
		category.ID, category.Name)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category,
		`SELECT * FROM categories WHERE lower(name) = lower($1)`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Category not found
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY lower(name)`)
	return categories, err
}

// RenameCategory renames the category row and rewrites the category field on
// every expense matching the old name, case-insensitively, in one transaction.
func (r *PostgresRepository) RenameCategory(ctx context.Context, id, oldName, newName string) (int, error) {
	var updated int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, newName, id)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// A concurrent creator took the target name; the unique index on
			// lower(name) keeps the rename from destroying it.
			return ErrDuplicate
		}
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}
		res, err = tx.ExecContext(ctx,
			`UPDATE expenses SET category = $1 WHERE lower(category) = lower($2)`,
			newName, oldName)
		if err != nil {
			return err
		}
		updated, err = res.RowsAffected()
		return err
	})
	return int(updated), err
}

// DeleteCategory deletes the category row and clears the category field on
// every referencing expense in one transaction.
func (r *PostgresRepository) DeleteCategory(ctx context.Context, id, name string) (int, error) {
	var cleared int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}
		res, err = tx.ExecContext(ctx,
			`UPDATE expenses SET category = NULL WHERE lower(category) = lower($1)`, name)
		if err != nil {
			return err
		}
		cleared, err = res.RowsAffected()
		return err
	})
	return int(cleared), err
}

// Helpers

func (r *PostgresRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func insertParticipants(ctx context.Context, tx *sqlx.Tx, expenseID string, participantIDs []string) error {
	for _, userID := range participantIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_participants (expense_id, user_id) VALUES ($1, $2)`,
			expenseID, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertEventMembers(ctx context.Context, tx *sqlx.Tx, eventID string, memberIDs []string) error {
	for _, userID := range memberIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_members (event_id, user_id) VALUES ($1, $2)`,
			eventID, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
