package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"craftkart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role, verified *bool) ([]*domain.User, error)
	UpdateSellerProfile(ctx context.Context, user *domain.User) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	UpdateRating(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error
}

const userColumns = `id, name, email, password_hash, role, is_verified, shop_name, phone,
	bank_account_holder, bank_account_number, bank_ifsc, bank_name,
	rating_average, rating_count, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(s scanner) (*domain.User, error) {
	user := &domain.User{}
	err := s.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.ShopName,
		&user.Phone,
		&user.Bank.AccountHolder,
		&user.Bank.AccountNumber,
		&user.Bank.IFSC,
		&user.Bank.BankName,
		&user.RatingAverage,
		&user.RatingCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database using parameterized queries
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.ShopName,
		user.Phone,
		user.Bank.AccountHolder,
		user.Bank.AccountNumber,
		user.Bank.IFSC,
		user.Bank.BankName,
		user.RatingAverage,
		user.RatingCount,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByEmail retrieves a user by email using parameterized queries
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// ListByRole lists users of one role, optionally filtered by verification.
func (r *userRepository) ListByRole(ctx context.Context, role domain.Role, verified *bool) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1`
	args := []interface{}{role}

	if verified != nil {
		query += ` AND is_verified = $2`
		args = append(args, *verified)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateSellerProfile stores shop, phone and bank details.
func (r *userRepository) UpdateSellerProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET shop_name = $2, phone = $3, bank_account_holder = $4,
		    bank_account_number = $5, bank_ifsc = $6, bank_name = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.ShopName,
		user.Phone,
		user.Bank.AccountHolder,
		user.Bank.AccountNumber,
		user.Bank.IFSC,
		user.Bank.BankName,
	)
	if err != nil {
		return fmt.Errorf("failed to update seller profile: %w", err)
	}

	return expectOneRow(result, ErrUserNotFound)
}

// SetVerified grants or revokes seller verification.
func (r *userRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET is_verified = $2 WHERE id = $1 AND role = 'seller'`, id, verified)
	if err != nil {
		return fmt.Errorf("failed to set seller verification: %w", err)
	}

	return expectOneRow(result, ErrUserNotFound)
}

// UpdateRating stores the re-aggregated seller rating.
func (r *userRepository) UpdateRating(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	query := `UPDATE users SET rating_average = $2, rating_count = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, summary.Average, summary.Count)
	if err != nil {
		return fmt.Errorf("failed to update seller rating: %w", err)
	}

	return expectOneRow(result, ErrUserNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
