package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dkroy/storefront-golang/internal/models"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"pid", "name", "slug", "category", "price", "stock_count", "description"})
}

func TestSearchProductsAndCombinesKeywords(t *testing.T) {
	st, mock := newTestStore(t)

	// Each keyword contributes one (name OR description) clause with two
	// LIKE parameters, lowercased.
	mock.ExpectQuery("AND \\(LOWER\\(name\\) LIKE \\? OR LOWER\\(description\\) LIKE \\?\\).*AND \\(LOWER\\(name\\) LIKE \\? OR LOWER\\(description\\) LIKE \\?\\)").
		WithArgs("%widget%", "%widget%", "%basic%", "%basic%").
		WillReturnRows(productRows().
			AddRow(int64(1), "Widget A", "widget-a", "gadgets", 9.99, 50, "Basic widget A"))

	products, err := st.SearchProducts(context.Background(), []string{"Widget", "BASIC"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Widget A", products[0].Name)
	expectationsMet(t, mock)
}

func TestSearchProductsRequiresKeyword(t *testing.T) {
	st, mock := newTestStore(t)

	var valErr *ValidationError
	_, err := st.SearchProducts(context.Background(), []string{"  ", ""})
	require.ErrorAs(t, err, &valErr)
	expectationsMet(t, mock)
}

func TestGetProductNotFound(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT pid, name, slug, category, price, stock_count, description")).
		WithArgs(int64(99)).
		WillReturnRows(productRows())

	_, err := st.GetProduct(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
	expectationsMet(t, mock)
}

func TestUpdatePriceRejectsNonPositive(t *testing.T) {
	st, mock := newTestStore(t)

	var valErr *ValidationError
	err := st.UpdatePrice(context.Background(), 1, 0)
	require.ErrorAs(t, err, &valErr)
	err = st.UpdatePrice(context.Background(), 1, -3.5)
	require.ErrorAs(t, err, &valErr)
	expectationsMet(t, mock)
}

func TestUpdatePriceUnknownProduct(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE pid = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := st.UpdatePrice(context.Background(), 99, 10.0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	expectationsMet(t, mock)
}

func TestUpdateStockSetsCount(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE pid = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock_count = ? WHERE pid = ?")).
		WithArgs(0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Zero is a legal stock count; only negatives are rejected.
	err := st.UpdateStock(context.Background(), 1, 0)
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products (name, slug, category, price, stock_count, description)")).
		WithArgs("Widget G", "widget-g", "gadgets", 12.50, 5, "Next widget").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := st.CreateProduct(context.Background(), &models.Product{
		Name:        "Widget G",
		Category:    "gadgets",
		Price:       12.50,
		StockCount:  5,
		Description: "Next widget",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	expectationsMet(t, mock)
}

func TestCreateProductValidation(t *testing.T) {
	st, mock := newTestStore(t)

	var valErr *ValidationError
	_, err := st.CreateProduct(context.Background(), &models.Product{Name: "X", Price: 0})
	require.ErrorAs(t, err, &valErr)
	_, err = st.CreateProduct(context.Background(), &models.Product{Name: "X", Price: 1, StockCount: -1})
	require.ErrorAs(t, err, &valErr)
	expectationsMet(t, mock)
}
