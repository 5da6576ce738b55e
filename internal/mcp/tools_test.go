package mcp

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermcp/internal/store"
)

const testSchema = `
CREATE TABLE product (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	price REAL NOT NULL,
	stock INTEGER NOT NULL,
	image_url TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE "order" (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_name TEXT NOT NULL,
	customer_email TEXT,
	customer_phone TEXT,
	customer_address TEXT,
	items TEXT NOT NULL,
	total_amount REAL NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestDB creates a temp-file SQLite database with the two-table
// schema and returns its path.
func createTestDB(t *testing.T) (string, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return path, db
}

func insertProduct(t *testing.T, db *sql.DB, id int64, name, desc string, price float64, stock int64) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO product (id, name, description, price, stock, image_url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, desc, price, stock, fmt.Sprintf("/static/%d.png", id))
	require.NoError(t, err)
}

func insertOrder(t *testing.T, db *sql.DB, id int64, customer, items string, total float64, status, createdAt string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO "order" (id, customer_name, customer_email, customer_phone,
			customer_address, items, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, customer, "test@example.com", "555-0100", "1 Main St",
		items, total, status, createdAt)
	require.NoError(t, err)
}

func ago(d time.Duration) string {
	return time.Now().UTC().Add(-d).Format("2006-01-02 15:04:05")
}

// seedFixture populates the standard test dataset: three products, three
// recent orders, one order older than a year, and three orders on fixed
// dates in March 2025.
func seedFixture(t *testing.T, db *sql.DB) {
	t.Helper()

	insertProduct(t, db, 1, "Energy Boost", "Citrus energy drink", 4.99, 120)
	insertProduct(t, db, 2, "Focus Fuel", "Berry nootropic blend", 6.49, 0)
	insertProduct(t, db, 3, "Calm Drink", "Chamomile seltzer", 3.25, 40)

	boost2 := `[{"product_id": 1, "product_name": "Energy Boost", "price": 4.99, "quantity": 2}]`
	fuel1 := `[{"product_id": 2, "product_name": "Focus Fuel", "price": 6.49, "quantity": 1}]`
	mixed := `[{"product_id": 1, "product_name": "Energy Boost", "price": 4.99, "quantity": 2}, ` +
		`{"product_id": 3, "product_name": "Calm Drink", "price": 3.25, "quantity": 1}]`
	calm1 := `[{"product_id": 3, "product_name": "Calm Drink", "price": 3.25, "quantity": 1}]`

	insertOrder(t, db, 1, "Alice Johnson", boost2, 9.98, "pending", ago(2*time.Hour))
	insertOrder(t, db, 2, "Bob Smith", fuel1, 6.49, "delivered", ago(26*time.Hour))
	insertOrder(t, db, 3, "Alice Johnson", mixed, 13.23, "processing", ago(50*time.Hour))
	insertOrder(t, db, 4, "Zed Old", calm1, 20.00, "delivered", ago(400*24*time.Hour))

	insertOrder(t, db, 5, "Carol White", calm1, 10.00, "delivered", "2025-03-10 09:15:00")
	insertOrder(t, db, 6, "Carol White", calm1, 20.00, "delivered", "2025-03-10 18:45:00")
	insertOrder(t, db, 7, "Dan Brown", calm1, 30.00, "pending", "2025-03-12 13:05:00")
}

func newTestExecutor(t *testing.T) *ToolExecutor {
	t.Helper()

	path, db := createTestDB(t)
	seedFixture(t, db)

	st, err := store.Open(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewToolExecutor(st, testLogger())
}

func TestOrderDetails_ByID(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.OrderDetails(context.Background(), Args{"order_id": 1})
	require.NoError(t, err)

	assert.Contains(t, text, "Order Details - ID: 1")
	assert.Contains(t, text, "Alice Johnson")
	assert.Contains(t, text, "$9.98")
	assert.Contains(t, text, "pending")
	// The embedded line items deserialize to the stored snapshot
	assert.Contains(t, text, "Energy Boost x2 @ $4.99")
}

func TestOrderDetails_NotFound(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.OrderDetails(context.Background(), Args{"order_id": 999})
	require.NoError(t, err)
	assert.Equal(t, "Order with ID 999 not found.", text)
}

func TestOrderDetails_ByCustomerPartialMatch(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.OrderDetails(context.Background(), Args{"customer_name": "alice"})
	require.NoError(t, err)

	assert.Contains(t, text, `Orders for customers matching "alice"`)
	assert.Contains(t, text, "Order ID: 1")
	assert.Contains(t, text, "Order ID: 3")
	// Most recent first
	assert.Less(t, strings.Index(text, "Order ID: 1"), strings.Index(text, "Order ID: 3"))
}

func TestOrderDetails_NoParameters(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.OrderDetails(context.Background(), Args{})
	require.NoError(t, err)
	assert.Contains(t, text, "Please provide either order_id or customer_name")
}

func TestOrderSummary(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.OrderSummary(context.Background(), Args{"days": 30})
	require.NoError(t, err)

	assert.Contains(t, text, "Total Orders (All Time): 7")
	assert.Contains(t, text, "Recent Orders (30 days): 3")
	assert.Contains(t, text, "Total Revenue (30 days): $29.70")
	assert.Contains(t, text, "pending: 1 orders")
}

func TestOrderSummary_OnlyOldOrders(t *testing.T) {
	path, db := createTestDB(t)
	calm1 := `[{"product_id": 3, "product_name": "Calm Drink", "price": 3.25, "quantity": 1}]`
	insertOrder(t, db, 1, "Zed Old", calm1, 20.00, "delivered", ago(400*24*time.Hour))
	insertOrder(t, db, 2, "Zed Old", calm1, 15.00, "pending", ago(200*24*time.Hour))

	st, err := store.Open(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	te := NewToolExecutor(st, testLogger())

	text, err := te.OrderSummary(context.Background(), Args{"days": 30})
	require.NoError(t, err)

	assert.Contains(t, text, "Total Orders (All Time): 2")
	assert.Contains(t, text, "Recent Orders (30 days): 0")
	assert.Contains(t, text, "Daily Average: 0.0 orders/day")
	assert.Contains(t, text, "Total Revenue (30 days): $0.00")
	// Window breakdown is empty: no status line appears
	assert.NotContains(t, text, "delivered:")
}

func TestSearchOrdersByDate(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.SearchOrdersByDate(context.Background(), Args{
		"start_date": "2025-03-10",
		"end_date":   "2025-03-12",
	})
	require.NoError(t, err)

	assert.Contains(t, text, "Orders from 2025-03-10 to 2025-03-12")
	assert.Contains(t, text, "Total Orders: 3")
	assert.Contains(t, text, "Total Revenue: $60.00")
	assert.Contains(t, text, "Average Order: $20.00")
	assert.Contains(t, text, "Carol White")
	assert.Contains(t, text, "Dan Brown")
	// Most recent first
	assert.Less(t, strings.Index(text, "Dan Brown"), strings.Index(text, "Carol White"))
}

func TestSearchOrdersByDate_Empty(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.SearchOrdersByDate(context.Background(), Args{
		"start_date": "1999-01-01",
		"end_date":   "1999-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "No orders found between 1999-01-01 and 1999-12-31.", text)
}

func TestProductDetails_ByID(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.ProductDetails(context.Background(), Args{"product_id": 1})
	require.NoError(t, err)

	assert.Contains(t, text, "Product Details - ID: 1")
	assert.Contains(t, text, "Energy Boost")
	assert.Contains(t, text, "$4.99")
	assert.Contains(t, text, "120 units")
	assert.Contains(t, text, "In Stock")
	// Orders 1 and 3 reference product 1 in their line items
	assert.Contains(t, text, "Total Orders: 2")
}

func TestProductDetails_OutOfStock(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.ProductDetails(context.Background(), Args{"product_id": 2})
	require.NoError(t, err)
	assert.Contains(t, text, "Out of Stock")
}

func TestProductDetails_NotFound(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.ProductDetails(context.Background(), Args{"product_id": 999})
	require.NoError(t, err)
	assert.Equal(t, "Product with ID 999 not found.", text)
}

func TestProductDetails_ListAll(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.ProductDetails(context.Background(), Args{})
	require.NoError(t, err)

	assert.Contains(t, text, "All Products Inventory")
	// Identifier order
	assert.Less(t, strings.Index(text, "Energy Boost"), strings.Index(text, "Focus Fuel"))
	assert.Less(t, strings.Index(text, "Focus Fuel"), strings.Index(text, "Calm Drink"))
}

func TestRevenueAnalysis_ByDay(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.RevenueAnalysis(context.Background(), Args{"days": 30, "group_by": "day"})
	require.NoError(t, err)

	assert.Contains(t, text, "Grouped by day")
	assert.Contains(t, text, "Total Revenue: $29.70")
	assert.Contains(t, text, "Total Orders: 3")
}

func TestRevenueAnalysis_WeekAndMonth(t *testing.T) {
	te := newTestExecutor(t)

	for _, groupBy := range []string{"week", "month"} {
		text, err := te.RevenueAnalysis(context.Background(), Args{"days": 30, "group_by": groupBy})
		require.NoError(t, err)
		assert.Contains(t, text, "Grouped by "+groupBy)
		assert.Contains(t, text, "Total Orders: 3")
	}
}

func TestRevenueAnalysis_EmptyWindow(t *testing.T) {
	path, db := createTestDB(t)
	_ = db
	st, err := store.Open(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	te := NewToolExecutor(st, testLogger())

	text, err := te.RevenueAnalysis(context.Background(), Args{"days": 30, "group_by": "day"})
	require.NoError(t, err)
	assert.Equal(t, "No revenue data found for the last 30 days.", text)
}

func TestCustomerAnalysis_Named(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.CustomerAnalysis(context.Background(), Args{"customer_name": "Alice", "days": 30})
	require.NoError(t, err)

	assert.Contains(t, text, "Customer Analysis: Alice")
	assert.Contains(t, text, "Total Orders: 2")
	assert.Contains(t, text, "Total Spent: $23.21")
	assert.Contains(t, text, "Order 1:")
	assert.Contains(t, text, "Order 3:")
}

func TestCustomerAnalysis_Ranking(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.CustomerAnalysis(context.Background(), Args{"days": 30})
	require.NoError(t, err)

	assert.Contains(t, text, "Unique Customers: 2")
	assert.Contains(t, text, "Total Orders: 3")
	assert.Contains(t, text, "Orders per Customer: 1.5")
	// Ranked by total spent
	assert.Less(t, strings.Index(text, "Alice Johnson"), strings.Index(text, "Bob Smith"))
}

func TestCustomerAnalysis_NamedNotFound(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.CustomerAnalysis(context.Background(), Args{"customer_name": "Nobody", "days": 30})
	require.NoError(t, err)
	assert.Equal(t, `No orders found for customer "Nobody" in the last 30 days.`, text)
}

func TestDailyStatistics(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.DailyStatistics(context.Background(), Args{"date": "2025-03-10"})
	require.NoError(t, err)

	assert.Contains(t, text, "Daily Statistics for 2025-03-10")
	assert.Contains(t, text, "Total Orders: 2")
	assert.Contains(t, text, "Total Revenue: $30.00")
	assert.Contains(t, text, "Min Order: $10.00")
	assert.Contains(t, text, "Max Order: $20.00")
	assert.Contains(t, text, "First Order: 09:15:00")
	assert.Contains(t, text, "Last Order: 18:45:00")
	assert.Contains(t, text, "09:00-09:59: 1 orders")
	assert.Contains(t, text, "18:00-18:59: 1 orders")
}

func TestDailyStatistics_Empty(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.DailyStatistics(context.Background(), Args{"date": "1999-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "No orders found for 1999-01-01.", text)
}

func TestDateRangeStatistics(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.DateRangeStatistics(context.Background(), Args{
		"start_date": "2025-03-10",
		"end_date":   "2025-03-12",
	})
	require.NoError(t, err)

	assert.Contains(t, text, "Date Range Statistics: 2025-03-10 to 2025-03-12")
	assert.Contains(t, text, "Total Orders: 3")
	assert.Contains(t, text, "Total Revenue: $60.00")
	assert.Contains(t, text, "Active Days: 2")
	assert.Contains(t, text, "Unique Customers: 2")
	assert.Contains(t, text, "Average Orders per Day: 1.5")
	assert.Contains(t, text, "Average Revenue per Day: $30.00")
	// Day-of-week annotations, most recent day first
	assert.Contains(t, text, "2025-03-12 (Wed)")
	assert.Contains(t, text, "2025-03-10 (Mon)")
	assert.Less(t, strings.Index(text, "2025-03-12"), strings.Index(text, "2025-03-10 (Mon)"))
}

func TestCustomQuery_Select(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.CustomQuery(context.Background(), Args{"query": "SELECT name FROM product"})
	require.NoError(t, err)

	assert.Contains(t, text, "Custom Query Results")
	assert.Contains(t, text, "Results (3 rows)")
	assert.Contains(t, text, "Row 1:")
	assert.Contains(t, text, "- name: Energy Boost")
	assert.Contains(t, text, "Row 3:")
	assert.Contains(t, text, "- name: Calm Drink")
	assert.NotContains(t, text, "Showing first")
}

func TestCustomQuery_Unsafe(t *testing.T) {
	te := newTestExecutor(t)

	_, err := te.CustomQuery(context.Background(), Args{"query": "DELETE FROM product"})
	require.Error(t, err)
	_, ok := err.(*UnsafeQueryError)
	assert.True(t, ok, "expected *UnsafeQueryError, got %T", err)
}

func TestCustomQuery_EmptyResult(t *testing.T) {
	te := newTestExecutor(t)

	text, err := te.CustomQuery(context.Background(), Args{"query": "SELECT name FROM product WHERE id = 999"})
	require.NoError(t, err)
	assert.Equal(t, "Query returned no results.", text)
}

func TestIdempotence(t *testing.T) {
	te := newTestExecutor(t)
	ctx := context.Background()

	first, err := te.OrderSummary(ctx, Args{"days": 30})
	require.NoError(t, err)
	second, err := te.OrderSummary(ctx, Args{"days": 30})
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical calls against an unmodified store must be byte-identical")
}

func TestRegistry_ListTools(t *testing.T) {
	te := newTestExecutor(t)
	registry, err := NewRegistry(te)
	require.NoError(t, err)

	tools := registry.ListTools()
	require.Len(t, tools, 9)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema["type"])
	}
	assert.Equal(t, []string{
		"get_order_details",
		"get_order_summary",
		"search_orders_by_date",
		"get_product_details",
		"get_revenue_analysis",
		"get_customer_analysis",
		"get_daily_statistics",
		"get_date_range_statistics",
		"execute_custom_query",
	}, names)
}

func TestRegistry_Invoke(t *testing.T) {
	te := newTestExecutor(t)
	registry, err := NewRegistry(te)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		result, err := registry.Invoke(ctx, "get_order_summary", map[string]interface{}{})
		require.NoError(t, err)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "text", result.Content[0].Type)
		assert.Contains(t, result.Content[0].Text, "Order Summary (Last 30 Days)")
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := registry.Invoke(ctx, "drop_all_tables", nil)
		require.Error(t, err)
		assert.Equal(t, MethodNotFound, err.(*RPCError).Code)
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := registry.Invoke(ctx, "get_daily_statistics", map[string]interface{}{"date": "not-a-date"})
		require.Error(t, err)
		assert.Equal(t, ValidationFailed, err.(*RPCError).Code)
	})

	t.Run("unsafe query", func(t *testing.T) {
		_, err := registry.Invoke(ctx, "execute_custom_query", map[string]interface{}{
			"query": "UPDATE product SET price = 0",
		})
		require.Error(t, err)
		assert.Equal(t, UnsafeQuery, err.(*RPCError).Code)
	})

	t.Run("store failure names the tool", func(t *testing.T) {
		_, err := registry.Invoke(ctx, "execute_custom_query", map[string]interface{}{
			"query": "SELECT * FROM no_such_table",
		})
		require.Error(t, err)
		rpcErr := err.(*RPCError)
		assert.Equal(t, StoreFailure, rpcErr.Code)
		assert.Contains(t, rpcErr.Message, "execute_custom_query")
	})
}
