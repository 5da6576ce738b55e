package store

import (
	"context"
	"database/sql"
	"fmt"

	"ordermcp/internal/models"
)

// orderColumns is the column list scanned into models.Order.
const orderColumns = `id, customer_name, customer_email, customer_phone,
       customer_address, items, total_amount, status, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var email, phone, address, items, created sql.NullString
	if err := row.Scan(&o.ID, &o.CustomerName, &email, &phone, &address,
		&items, &o.TotalAmount, &o.Status, &created); err != nil {
		return nil, err
	}
	o.CustomerEmail = email.String
	o.CustomerPhone = phone.String
	o.CustomerAddress = address.String
	o.RawItems = items.String
	o.CreatedAt = parseTime(created.String)
	return &o, nil
}

// OrderByID returns the order with the given identifier, or nil when no
// such order exists.
func (c *Conn) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	row := c.conn.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM "order"
		WHERE id = ?`, id)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return o, nil
}

// OrdersByCustomer returns orders whose customer name contains the given
// text, case-insensitively, most recent first, capped at limit rows.
func (c *Conn) OrdersByCustomer(ctx context.Context, name string, limit int) ([]models.Order, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM "order"
		WHERE customer_name LIKE ?
		ORDER BY created_at DESC
		LIMIT ?`, "%"+name+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("query orders by customer: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// CountOrders returns the all-time order count.
func (c *Conn) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := c.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "order"`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// WindowStats returns count, average, and sum of order totals over the
// trailing window of days.
func (c *Conn) WindowStats(ctx context.Context, days int) (models.WindowStats, error) {
	var ws models.WindowStats
	var avg, sum sql.NullFloat64
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(total_amount), SUM(total_amount)
		FROM "order"
		WHERE created_at >= datetime('now', ?)`, windowModifier(days)).
		Scan(&ws.Count, &avg, &sum)
	if err != nil {
		return ws, fmt.Errorf("window stats: %w", err)
	}
	ws.Avg = avg.Float64
	ws.Sum = sum.Float64
	return ws, nil
}

// StatusBreakdown groups orders in the trailing window by status. Rows come
// back in the order the store returns them; no ordering is defined.
func (c *Conn) StatusBreakdown(ctx context.Context, days int) ([]models.StatusCount, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT status, COUNT(*), SUM(total_amount)
		FROM "order"
		WHERE created_at >= datetime('now', ?)
		GROUP BY status`, windowModifier(days))
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		var revenue sql.NullFloat64
		if err := rows.Scan(&sc.Status, &sc.Count, &revenue); err != nil {
			return nil, fmt.Errorf("scan status row: %w", err)
		}
		sc.Revenue = revenue.Float64
		breakdown = append(breakdown, sc)
	}
	return breakdown, rows.Err()
}

// OrdersInRange returns orders whose creation date falls within the
// inclusive [start, end] calendar-date range, most recent first, capped at
// limit rows.
func (c *Conn) OrdersInRange(ctx context.Context, start, end string, limit int) ([]models.Order, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM "order"
		WHERE DATE(created_at) BETWEEN ? AND ?
		ORDER BY created_at DESC
		LIMIT ?`, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders in range: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// RangeAggregate computes count, sum, and average over the full set of
// orders in the range, independent of the row cap applied to the listing.
func (c *Conn) RangeAggregate(ctx context.Context, start, end string) (models.RangeAggregate, error) {
	var agg models.RangeAggregate
	var sum, avg sql.NullFloat64
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(total_amount), AVG(total_amount)
		FROM "order"
		WHERE DATE(created_at) BETWEEN ? AND ?`, start, end).
		Scan(&agg.Count, &sum, &avg)
	if err != nil {
		return agg, fmt.Errorf("range aggregate: %w", err)
	}
	agg.Sum = sum.Float64
	agg.Avg = avg.Float64
	return agg, nil
}

// ProductByID returns the product with the given identifier, or nil when no
// such product exists.
func (c *Conn) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	var desc, image, created sql.NullString
	err := c.conn.QueryRowContext(ctx, `
		SELECT id, name, description, price, stock, image_url, created_at
		FROM product
		WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &image, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	p.Description = desc.String
	p.ImageURL = image.String
	p.CreatedAt = parseTime(created.String)
	return &p, nil
}

// Products returns all products in identifier order.
func (c *Conn) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT id, name, description, price, stock, image_url, created_at
		FROM product
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var desc, image, created sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &image, &created); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = desc.String
		p.ImageURL = image.String
		p.CreatedAt = parseTime(created.String)
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductOrderCount counts orders whose serialized line items reference the
// product. Substring match on the stored JSON text, same shape the seeding
// process writes.
func (c *Conn) ProductOrderCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	pattern := fmt.Sprintf(`%%"product_id": %d%%`, id)
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM "order" WHERE items LIKE ?`, pattern).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("product order count: %w", err)
	}
	return n, nil
}

// RevenueByPeriod groups orders in the trailing window by calendar day,
// week-of-year, or calendar month. Day grouping is capped at 30 groups.
// Groups come back most recent period first.
func (c *Conn) RevenueByPeriod(ctx context.Context, days int, groupBy string) ([]models.PeriodRevenue, error) {
	var query string
	switch groupBy {
	case "day":
		query = `
			SELECT DATE(created_at) AS period,
			       COUNT(*), SUM(total_amount), AVG(total_amount)
			FROM "order"
			WHERE created_at >= datetime('now', ?)
			GROUP BY DATE(created_at)
			ORDER BY period DESC
			LIMIT 30`
	case "week":
		query = `
			SELECT strftime('%Y-W%W', created_at) AS period,
			       COUNT(*), SUM(total_amount), AVG(total_amount)
			FROM "order"
			WHERE created_at >= datetime('now', ?)
			GROUP BY strftime('%Y-W%W', created_at)
			ORDER BY period DESC`
	default: // month
		query = `
			SELECT strftime('%Y-%m', created_at) AS period,
			       COUNT(*), SUM(total_amount), AVG(total_amount)
			FROM "order"
			WHERE created_at >= datetime('now', ?)
			GROUP BY strftime('%Y-%m', created_at)
			ORDER BY period DESC`
	}

	rows, err := c.conn.QueryContext(ctx, query, windowModifier(days))
	if err != nil {
		return nil, fmt.Errorf("revenue by period: %w", err)
	}
	defer rows.Close()

	var periods []models.PeriodRevenue
	for rows.Next() {
		var pr models.PeriodRevenue
		var revenue, avg sql.NullFloat64
		if err := rows.Scan(&pr.Period, &pr.Orders, &revenue, &avg); err != nil {
			return nil, fmt.Errorf("scan period row: %w", err)
		}
		pr.Revenue = revenue.Float64
		pr.AvgOrder = avg.Float64
		periods = append(periods, pr)
	}
	return periods, rows.Err()
}

// CustomerOrders returns all orders in the trailing window whose customer
// name contains the given text, most recent first.
func (c *Conn) CustomerOrders(ctx context.Context, name string, days int) ([]models.Order, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM "order"
		WHERE customer_name LIKE ?
		  AND created_at >= datetime('now', ?)
		ORDER BY created_at DESC`, "%"+name+"%", windowModifier(days))
	if err != nil {
		return nil, fmt.Errorf("query customer orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// TopCustomers ranks customers in the trailing window by total spent,
// capped at limit rows.
func (c *Conn) TopCustomers(ctx context.Context, days, limit int) ([]models.CustomerRank, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT customer_name, COUNT(*), SUM(total_amount),
		       AVG(total_amount), MAX(created_at)
		FROM "order"
		WHERE created_at >= datetime('now', ?)
		GROUP BY customer_name
		ORDER BY SUM(total_amount) DESC
		LIMIT ?`, windowModifier(days), limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	var ranks []models.CustomerRank
	for rows.Next() {
		var cr models.CustomerRank
		var spent, avg sql.NullFloat64
		var last sql.NullString
		if err := rows.Scan(&cr.Name, &cr.Orders, &spent, &avg, &last); err != nil {
			return nil, fmt.Errorf("scan customer rank: %w", err)
		}
		cr.TotalSpent = spent.Float64
		cr.AvgOrder = avg.Float64
		cr.LastOrder = parseTime(last.String)
		ranks = append(ranks, cr)
	}
	return ranks, rows.Err()
}

// CustomerOverview returns window-wide customer aggregates.
func (c *Conn) CustomerOverview(ctx context.Context, days int) (models.CustomerOverview, error) {
	var ov models.CustomerOverview
	var revenue sql.NullFloat64
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT customer_name), COUNT(*), SUM(total_amount)
		FROM "order"
		WHERE created_at >= datetime('now', ?)`, windowModifier(days)).
		Scan(&ov.UniqueCustomers, &ov.TotalOrders, &revenue)
	if err != nil {
		return ov, fmt.Errorf("customer overview: %w", err)
	}
	ov.TotalRevenue = revenue.Float64
	return ov, nil
}

// DayStats returns the aggregates for a single calendar date.
func (c *Conn) DayStats(ctx context.Context, date string) (models.DayStats, error) {
	var ds models.DayStats
	var revenue, avg, min, max sql.NullFloat64
	var first, last sql.NullString
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(total_amount), AVG(total_amount),
		       MIN(total_amount), MAX(total_amount),
		       MIN(created_at), MAX(created_at)
		FROM "order"
		WHERE DATE(created_at) = ?`, date).
		Scan(&ds.Orders, &revenue, &avg, &min, &max, &first, &last)
	if err != nil {
		return ds, fmt.Errorf("day stats: %w", err)
	}
	ds.Revenue = revenue.Float64
	ds.AvgOrder = avg.Float64
	ds.MinOrder = min.Float64
	ds.MaxOrder = max.Float64
	ds.FirstOrder = parseTime(first.String)
	ds.LastOrder = parseTime(last.String)
	return ds, nil
}

// HourlyBreakdown groups a date's orders by hour of day, ascending. Only
// hours with at least one order are returned.
func (c *Conn) HourlyBreakdown(ctx context.Context, date string) ([]models.HourBucket, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT strftime('%H', created_at) AS hour,
		       COUNT(*), SUM(total_amount)
		FROM "order"
		WHERE DATE(created_at) = ?
		GROUP BY strftime('%H', created_at)
		ORDER BY hour`, date)
	if err != nil {
		return nil, fmt.Errorf("hourly breakdown: %w", err)
	}
	defer rows.Close()

	var hours []models.HourBucket
	for rows.Next() {
		var hb models.HourBucket
		var revenue sql.NullFloat64
		if err := rows.Scan(&hb.Hour, &hb.Orders, &revenue); err != nil {
			return nil, fmt.Errorf("scan hour bucket: %w", err)
		}
		hb.Revenue = revenue.Float64
		hours = append(hours, hb)
	}
	return hours, rows.Err()
}

// RangeStats returns the aggregates for an inclusive calendar-date range.
func (c *Conn) RangeStats(ctx context.Context, start, end string) (models.RangeStats, error) {
	var rs models.RangeStats
	var revenue, avg, min, max sql.NullFloat64
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(total_amount), AVG(total_amount),
		       MIN(total_amount), MAX(total_amount),
		       COUNT(DISTINCT DATE(created_at)),
		       COUNT(DISTINCT customer_name)
		FROM "order"
		WHERE DATE(created_at) BETWEEN ? AND ?`, start, end).
		Scan(&rs.Orders, &revenue, &avg, &min, &max, &rs.ActiveDays, &rs.UniqueCustomers)
	if err != nil {
		return rs, fmt.Errorf("range stats: %w", err)
	}
	rs.Revenue = revenue.Float64
	rs.AvgOrder = avg.Float64
	rs.MinOrder = min.Float64
	rs.MaxOrder = max.Float64
	return rs, nil
}

// DailyBreakdown groups a range's orders by calendar date, most recent
// first, capped at limit days.
func (c *Conn) DailyBreakdown(ctx context.Context, start, end string, limit int) ([]models.DayBucket, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT DATE(created_at) AS order_date,
		       COUNT(*), SUM(total_amount), AVG(total_amount)
		FROM "order"
		WHERE DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY order_date DESC
		LIMIT ?`, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("daily breakdown: %w", err)
	}
	defer rows.Close()

	var days []models.DayBucket
	for rows.Next() {
		var db models.DayBucket
		var revenue, avg sql.NullFloat64
		if err := rows.Scan(&db.Date, &db.Orders, &revenue, &avg); err != nil {
			return nil, fmt.Errorf("scan day bucket: %w", err)
		}
		db.Revenue = revenue.Float64
		db.AvgOrder = avg.Float64
		days = append(days, db)
	}
	return days, rows.Err()
}

// RunSelect executes a caller-supplied read query verbatim. The query must
// already have passed the safety filter. Rows beyond the cap are counted
// but not returned; every value is rendered as text.
func (c *Conn) RunSelect(ctx context.Context, query string, cap int) (models.QueryResult, error) {
	var result models.QueryResult

	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return result, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return result, fmt.Errorf("read columns: %w", err)
	}
	result.Columns = cols

	for rows.Next() {
		result.TotalRows++
		if result.TotalRows > cap {
			continue
		}
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return result, fmt.Errorf("scan row: %w", err)
		}
		rendered := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				rendered[i] = v.String
			} else {
				rendered[i] = "NULL"
			}
		}
		result.Rows = append(result.Rows, rendered)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
