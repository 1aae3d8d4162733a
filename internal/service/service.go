package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jegatheesh001/billzen-server/internal/models"
	"github.com/Jegatheesh001/billzen-server/internal/repository"
)

// Service defines all the business logic operations.
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Users
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)

	// Expenses
	ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error)
	CreateExpense(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error)
	UpdateExpense(ctx context.Context, id string, req models.UpdateExpenseRequest) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	DeleteExpenses(ctx context.Context, ids []string) (int, error)

	// Events
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, req models.UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// Categories
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error)
	RenameCategory(ctx context.Context, req models.RenameCategoryRequest) (string, int, error)
	DeleteCategory(ctx context.Context, name string) (int, error)

	// Balances and settlements
	GetDebts(ctx context.Context) ([]models.Debt, error)
	RecordSettlement(ctx context.Context, req models.RecordSettlementRequest) (*models.Expense, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewDefaultService creates a new DefaultService.
func NewDefaultService(repo repository.Repository, jwtSecret string) Service {
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
	}
}

// Authentication methods

func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, &StoreError{Op: "get user by email", Err: err}
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	email := req.Email
	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    &email,
		Password: string(hashedPassword),
	}
	if err := validateName("name", user.Name); err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, &StoreError{Op: "create user", Err: err}
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  *user.Email,
		Name:   user.Name,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, &StoreError{Op: "get user by email", Err: err}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// User methods

func (s *DefaultService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list users", Err: err}
	}
	return users, nil
}

func (s *DefaultService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName("name", name); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      name,
		AvatarURL: req.AvatarURL,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, &StoreError{Op: "create user", Err: err}
	}
	return user, nil
}

func (s *DefaultService) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "get user", Err: err}
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName("name", name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, &StoreError{Op: "update user", Err: err}
	}
	return user, nil
}

// Event methods

func (s *DefaultService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list events", Err: err}
	}
	return events, nil
}

func (s *DefaultService) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	if err := s.checkUsersExist(ctx, req.MemberIDs); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:      name,
		MemberIDs: req.MemberIDs,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, &StoreError{Op: "create event", Err: err}
	}
	return event, nil
}

func (s *DefaultService) UpdateEvent(ctx context.Context, id string, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "get event", Err: err}
	}
	if event == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName("name", name); err != nil {
			return nil, err
		}
		event.Name = name
	}
	if req.MemberIDs != nil {
		if err := s.checkUsersExist(ctx, req.MemberIDs); err != nil {
			return nil, err
		}
		event.MemberIDs = req.MemberIDs
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, &StoreError{Op: "update event", Err: err}
	}
	return event, nil
}

func (s *DefaultService) DeleteEvent(ctx context.Context, id string) error {
	err := s.repo.DeleteEvent(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "delete event", Err: err}
	}
	return nil
}

// Helper methods

func (s *DefaultService) checkUsersExist(ctx context.Context, ids []string) error {
	for _, id := range ids {
		user, err := s.repo.GetUserByID(ctx, id)
		if err != nil {
			return &StoreError{Op: "get user", Err: err}
		}
		if user == nil {
			return &ReferentialError{Entity: "user", ID: id}
		}
	}
	return nil
}

func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
