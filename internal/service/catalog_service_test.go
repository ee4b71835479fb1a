package service

import (
	"context"
	"testing"

	"craftkart/internal/domain"
	"craftkart/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	service    CatalogService
	users      *mockUserRepository
	products   *mockProductRepository
	categories *mockCategoryRepository
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		users:      newMockUserRepository(),
		products:   newMockProductRepository(),
		categories: newMockCategoryRepository(),
	}
	f.service = NewCatalogService(f.products, f.categories, f.users)
	return f
}

func (f *catalogFixture) input() ProductInput {
	return ProductInput{
		Title:      "Blue pottery vase",
		Price:      decimal.RequireFromString("899.00"),
		CategoryID: f.categories.add().ID,
		Images:     []string{"https://img.craftkart.in/vase.jpg"},
		Stock:      4,
	}
}

func TestCatalogService_UnverifiedSellerCannotList(t *testing.T) {
	f := newCatalogFixture()
	seller := f.users.add(domain.RoleSeller, false)

	_, err := f.service.CreateProduct(context.Background(), seller.ID, f.input())
	assert.ErrorIs(t, err, ErrSellerNotVerified)
	assert.Empty(t, f.products.products)
}

func TestCatalogService_NewProductsAwaitApproval(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	seller := f.users.add(domain.RoleSeller, true)

	product, err := f.service.CreateProduct(ctx, seller.ID, f.input())
	require.NoError(t, err)
	assert.False(t, product.Approved)

	_, err = f.service.GetApproved(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	page, err := f.service.ListApproved(ctx, ListingQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestCatalogService_EditResetsApprovalAndChecksOwner(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	owner := f.users.add(domain.RoleSeller, true)
	other := f.users.add(domain.RoleSeller, true)
	product := f.products.add(owner, 100, 1, true)

	in := f.input()
	_, err := f.service.UpdateProduct(ctx, other.ID, product.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.service.UpdateProduct(ctx, owner.ID, product.ID, in)
	require.NoError(t, err)
	assert.False(t, updated.Approved)
	assert.True(t, updated.Price.Equal(in.Price))
}

func TestCatalogService_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	seller := f.users.add(domain.RoleSeller, true)

	in := f.input()
	in.Price = decimal.Zero
	_, err := f.service.CreateProduct(ctx, seller.ID, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = f.input()
	in.CategoryID = uuid.New()
	_, err = f.service.CreateProduct(ctx, seller.ID, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = f.input()
	in.Stock = -1
	_, err = f.service.CreateProduct(ctx, seller.ID, in)
	assert.ErrorIs(t, err, ErrValidation)

	for _, price := range []string{"0.004", "10000000000"} {
		in = f.input()
		in.Price = decimal.RequireFromString(price)
		_, err = f.service.CreateProduct(ctx, seller.ID, in)
		assert.ErrorIs(t, err, ErrValidation, price)
	}
}

func TestCatalogService_PriceIsStoredInPaise(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	seller := f.users.add(domain.RoleSeller, true)

	in := f.input()
	in.Price = decimal.RequireFromString("10.005")
	product, err := f.service.CreateProduct(ctx, seller.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "10.01", product.Price.StringFixed(2))
	assert.True(t, product.Price.Equal(decimal.RequireFromString("10.01")))

	in.Price = decimal.RequireFromString("99.999")
	updated, err := f.service.UpdateProduct(ctx, seller.ID, product.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(100)))
}

func TestCatalogService_DeleteOwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	owner := f.users.add(domain.RoleSeller, true)
	other := f.users.add(domain.RoleSeller, true)
	admin := f.users.add(domain.RoleAdmin, true)

	first := f.products.add(owner, 100, 1, true)
	second := f.products.add(owner, 100, 1, true)

	assert.ErrorIs(t, f.service.DeleteProduct(ctx, other.ID, domain.RoleSeller, first.ID), ErrForbidden)
	assert.NoError(t, f.service.DeleteProduct(ctx, owner.ID, domain.RoleSeller, first.ID))
	assert.NoError(t, f.service.DeleteProduct(ctx, admin.ID, domain.RoleAdmin, second.ID))
	assert.Empty(t, f.products.products)
}

func TestProperty_CustomerListingOnlyShowsApproved(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("approved=false is never listed", prop.ForAll(
		func(flags []bool) bool {
			f := newCatalogFixture()
			seller := f.users.add(domain.RoleSeller, true)

			want := 0
			for _, approved := range flags {
				f.products.add(seller, 10, 1, approved)
				if approved {
					want++
				}
			}

			page, err := f.service.ListApproved(context.Background(), ListingQuery{PageSize: 1000})
			if err != nil {
				return false
			}
			for _, p := range page.Products {
				if !p.Approved {
					return false
				}
			}
			return len(page.Products) == want && page.PageSize == MaxPageSize
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
