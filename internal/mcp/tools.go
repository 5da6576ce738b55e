package mcp

import (
	"context"
	"log/slog"

	"ordermcp/internal/report"
	"ordermcp/internal/store"
)

// Row caps per tool. Aggregate figures are always computed over the full
// matching set; caps bound only the itemized sections.
const (
	customerMatchCap = 10
	dateSearchCap    = 50
	topCustomersCap  = 20
	recentOrdersCap  = 10
	dailyBucketCap   = 30
	adhocRowCap      = 100
)

// ToolExecutor runs the analytical tools against the store. Each call
// acquires a dedicated connection and releases it on every exit path.
type ToolExecutor struct {
	store  *store.Store
	logger *slog.Logger
}

// NewToolExecutor creates a tool executor over the given store.
func NewToolExecutor(st *store.Store, logger *slog.Logger) *ToolExecutor {
	return &ToolExecutor{
		store:  st,
		logger: logger.With("component", "tool_executor"),
	}
}

// OrderDetails looks an order up by exact identifier or by partial,
// case-insensitive customer name match.
func (te *ToolExecutor) OrderDetails(ctx context.Context, args Args) (string, error) {
	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if id, ok := args.Int("order_id"); ok {
		order, err := conn.OrderByID(ctx, int64(id))
		if err != nil {
			return "", err
		}
		if order == nil {
			return report.OrderNotFound(int64(id)), nil
		}
		return report.OrderDetail(order), nil
	}

	if name, ok := args.String("customer_name"); ok {
		orders, err := conn.OrdersByCustomer(ctx, name, customerMatchCap)
		if err != nil {
			return "", err
		}
		return report.OrderMatches(name, orders), nil
	}

	return "Please provide either order_id or customer_name parameter.", nil
}

// OrderSummary reports all-time and windowed order statistics with a
// status breakdown over the same window.
func (te *ToolExecutor) OrderSummary(ctx context.Context, args Args) (string, error) {
	days, _ := args.Int("days")

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	total, err := conn.CountOrders(ctx)
	if err != nil {
		return "", err
	}
	ws, err := conn.WindowStats(ctx, days)
	if err != nil {
		return "", err
	}
	breakdown, err := conn.StatusBreakdown(ctx, days)
	if err != nil {
		return "", err
	}

	return report.OrderSummary(days, total, ws, breakdown), nil
}

// SearchOrdersByDate lists orders in an inclusive calendar-date range. The
// summary aggregates cover the full matching set, not just the capped rows.
func (te *ToolExecutor) SearchOrdersByDate(ctx context.Context, args Args) (string, error) {
	start, _ := args.String("start_date")
	end, _ := args.String("end_date")

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	agg, err := conn.RangeAggregate(ctx, start, end)
	if err != nil {
		return "", err
	}
	orders, err := conn.OrdersInRange(ctx, start, end, dateSearchCap)
	if err != nil {
		return "", err
	}

	return report.DateRangeOrders(start, end, agg, orders), nil
}

// ProductDetails reports one product (with its derived order-reference
// count) or, with no identifier, the full inventory listing.
func (te *ToolExecutor) ProductDetails(ctx context.Context, args Args) (string, error) {
	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if id, ok := args.Int("product_id"); ok {
		product, err := conn.ProductByID(ctx, int64(id))
		if err != nil {
			return "", err
		}
		if product == nil {
			return report.ProductNotFound(int64(id)), nil
		}
		orderCount, err := conn.ProductOrderCount(ctx, product.ID)
		if err != nil {
			return "", err
		}
		return report.ProductDetail(product, orderCount), nil
	}

	products, err := conn.Products(ctx)
	if err != nil {
		return "", err
	}
	return report.ProductList(products), nil
}

// RevenueAnalysis reports windowed revenue grouped by day, week, or month.
func (te *ToolExecutor) RevenueAnalysis(ctx context.Context, args Args) (string, error) {
	days, _ := args.Int("days")
	groupBy, _ := args.String("group_by")

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	periods, err := conn.RevenueByPeriod(ctx, days, groupBy)
	if err != nil {
		return "", err
	}

	return report.RevenueAnalysis(days, groupBy, periods), nil
}

// CustomerAnalysis reports either a named customer's windowed activity or
// a window-wide customer ranking.
func (te *ToolExecutor) CustomerAnalysis(ctx context.Context, args Args) (string, error) {
	days, _ := args.Int("days")

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if name, ok := args.String("customer_name"); ok && name != "" {
		orders, err := conn.CustomerOrders(ctx, name, days)
		if err != nil {
			return "", err
		}
		return report.CustomerDetail(name, days, orders, recentOrdersCap), nil
	}

	ranks, err := conn.TopCustomers(ctx, days, topCustomersCap)
	if err != nil {
		return "", err
	}
	ov, err := conn.CustomerOverview(ctx, days)
	if err != nil {
		return "", err
	}
	return report.CustomerRanking(days, ov, ranks), nil
}

// DailyStatistics reports one calendar date's aggregates with an
// hour-of-day breakdown.
func (te *ToolExecutor) DailyStatistics(ctx context.Context, args Args) (string, error) {
	date, _ := args.String("date")

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	stats, err := conn.DayStats(ctx, date)
	if err != nil {
		return "", err
	}
	hours, err := conn.HourlyBreakdown(ctx, date)
	if err != nil {
		return "", err
	}

	return report.DailyStatistics(date, stats, hours), nil
}

// DateRangeStatistics reports an inclusive date range's aggregates with a
// per-day breakdown.
func (te *ToolExecutor) DateRangeStatistics(ctx context.Context, args Args) (string, error) {
	start, _ := args.String("start_date")
	end, _ := args.String("end_date")

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	stats, err := conn.RangeStats(ctx, start, end)
	if err != nil {
		return "", err
	}
	days, err := conn.DailyBreakdown(ctx, start, end, dailyBucketCap)
	if err != nil {
		return "", err
	}

	return report.DateRangeStatistics(start, end, stats, days), nil
}

// CustomQuery runs a caller-supplied read query after the safety filter
// passes it.
func (te *ToolExecutor) CustomQuery(ctx context.Context, args Args) (string, error) {
	query, _ := args.String("query")

	if err := CheckReadOnly(query); err != nil {
		return "", err
	}

	conn, err := te.store.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	result, err := conn.RunSelect(ctx, query, adhocRowCap)
	if err != nil {
		return "", err
	}

	return report.QueryResults(query, result, adhocRowCap), nil
}
