package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"craftkart/internal/database"
	"craftkart/internal/domain"
	"craftkart/migrations"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "craftkart"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB, migrations.FS, zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func seedUser(t *testing.T, role domain.Role, verified bool) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Test " + string(role),
		Email:        uuid.NewString() + "@craftkart.test",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehol",
		Role:         role,
		IsVerified:   verified,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := NewUserRepository(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedCategory(t *testing.T) *domain.Category {
	t.Helper()

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      "Category " + uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := NewCategoryRepository(testDB).Create(context.Background(), category); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

func seedProduct(t *testing.T, seller *domain.User, category *domain.Category, price int64, stock int, approved bool) *domain.Product {
	t.Helper()

	product := &domain.Product{
		ID:          uuid.New(),
		SellerID:    seller.ID,
		CategoryID:  category.ID,
		Title:       "Clay pot " + uuid.NewString()[:8],
		Description: "Hand thrown terracotta",
		Price:       decimal.NewFromInt(price),
		Images:      domain.StringList{"https://cdn.craftkart.test/pot.jpg"},
		Stock:       stock,
		Approved:    approved,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := NewProductRepository(testDB).Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}
