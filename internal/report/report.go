// Package report renders tool results as human-readable text reports: a
// summary block of derived aggregates followed by an itemized section
// capped at the tool's row limit. An empty result set produces a dedicated
// not-found message rather than an empty section.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ordermcp/internal/models"
)

const rule = "========================================"

const (
	dateLayout      = "2006-01-02"
	dateTimeLayout  = "2006-01-02 15:04:05"
	shortTimeLayout = "2006-01-02 15:04"
	clockLayout     = "15:04:05"
)

// Builder assembles a report section by section.
type Builder struct {
	sb strings.Builder
}

// Title writes the report heading and a rule line.
func (b *Builder) Title(format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteString("\n")
	b.sb.WriteString(rule)
	b.sb.WriteString("\n")
	return b
}

// Section starts a named block.
func (b *Builder) Section(name string) *Builder {
	b.sb.WriteString("\n")
	b.sb.WriteString(name)
	b.sb.WriteString(":\n")
	return b
}

// Field writes one summary line.
func (b *Builder) Field(label string, format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, "  - %s: ", label)
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteString("\n")
	return b
}

// Line writes one itemized line.
func (b *Builder) Line(format string, args ...any) *Builder {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteString("\n")
	return b
}

func (b *Builder) String() string {
	return b.sb.String()
}

// Money renders a monetary value to two decimal places.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Count renders an integer with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Date renders a timestamp as YYYY-MM-DD, or N/A for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

// DateTime renders a timestamp as YYYY-MM-DD HH:MM:SS, or N/A for the zero
// time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateTimeLayout)
}

// ShortDateTime renders a timestamp as YYYY-MM-DD HH:MM, or N/A for the
// zero time.
func ShortDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(shortTimeLayout)
}

// Clock renders a timestamp's time of day, or N/A for the zero time.
func Clock(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(clockLayout)
}

// ratio divides a by b, rendering 0 when the denominator is zero.
func ratio(a float64, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// OrderDetail renders a single order's full detail.
func OrderDetail(o *models.Order) string {
	var b Builder
	b.Title("Order Details - ID: %d", o.ID)
	b.Section("Customer")
	b.Field("Name", "%s", o.CustomerName)
	b.Field("Phone", "%s", o.CustomerPhone)
	b.Field("Address", "%s", o.CustomerAddress)
	b.Section("Order")
	b.Field("Total Amount", "%s", Money(o.TotalAmount))
	b.Field("Status", "%s", o.Status)
	b.Field("Order Date", "%s", DateTime(o.CreatedAt))
	b.Section("Items")

	items, err := o.Items()
	if err != nil {
		// Fall back to the raw snapshot when the embedded list does not
		// deserialize; the stored text is still the historical record.
		b.Line("  %s", o.RawItems)
		return b.String()
	}
	for _, it := range items {
		b.Line("  - %s x%d @ %s (product %d)", it.ProductName, it.Quantity, Money(it.Price), it.ProductID)
	}
	return b.String()
}

// OrderNotFound is the dedicated message for a missing order identifier.
func OrderNotFound(id int64) string {
	return fmt.Sprintf("Order with ID %d not found.", id)
}

// OrderMatches renders the capped listing of orders matching a customer
// name fragment.
func OrderMatches(name string, orders []models.Order) string {
	if len(orders) == 0 {
		return fmt.Sprintf("No orders found for customer name containing %q.", name)
	}

	var b Builder
	b.Title("Orders for customers matching %q (showing up to 10)", name)
	for _, o := range orders {
		b.Line("\nOrder ID: %d", o.ID)
		b.Line("  Customer: %s | %s", o.CustomerName, o.CustomerPhone)
		b.Line("  Amount: %s | Status: %s", Money(o.TotalAmount), o.Status)
		b.Line("  Date: %s", DateTime(o.CreatedAt))
		b.Line("  Address: %s", o.CustomerAddress)
	}
	return b.String()
}

// OrderSummary renders all-time and windowed order statistics with a
// status breakdown.
func OrderSummary(days int, totalOrders int64, ws models.WindowStats, breakdown []models.StatusCount) string {
	dailyAvg := ratio(float64(ws.Count), float64(days))

	var b Builder
	b.Title("Order Summary (Last %d Days)", days)
	b.Section("Overall Statistics")
	b.Field("Total Orders (All Time)", "%s", Count(totalOrders))
	b.Field("Recent Orders ("+fmt.Sprintf("%d days", days)+")", "%s", Count(ws.Count))
	b.Field("Daily Average", "%.1f orders/day", dailyAvg)
	b.Field("Average Order Value", "%s", Money(ws.Avg))
	b.Field("Total Revenue ("+fmt.Sprintf("%d days", days)+")", "%s", Money(ws.Sum))
	b.Section("Status Breakdown")
	for _, sc := range breakdown {
		b.Line("  - %s: %s orders (%s)", sc.Status, Count(sc.Count), Money(sc.Revenue))
	}
	return b.String()
}

// DateRangeOrders renders the listing of orders in a date range, with the
// aggregates computed over the full matching set rather than the capped
// rows.
func DateRangeOrders(start, end string, agg models.RangeAggregate, orders []models.Order) string {
	if len(orders) == 0 {
		return fmt.Sprintf("No orders found between %s and %s.", start, end)
	}

	var b Builder
	b.Title("Orders from %s to %s", start, end)
	b.Section("Summary")
	b.Field("Total Orders", "%s", Count(agg.Count))
	b.Field("Total Revenue", "%s", Money(agg.Sum))
	b.Field("Average Order", "%s", Money(agg.Avg))
	b.Section("Order List (showing up to 50)")
	for _, o := range orders {
		b.Line("  ID: %d | %s | %s | %s | %s",
			o.ID, o.CustomerName, Money(o.TotalAmount), o.Status, ShortDateTime(o.CreatedAt))
	}
	return b.String()
}

// ProductDetail renders one product with its derived order count.
func ProductDetail(p *models.Product, orderCount int64) string {
	var b Builder
	b.Title("Product Details - ID: %d", p.ID)
	b.Section("Product Information")
	b.Field("Name", "%s", p.Name)
	b.Field("Description", "%s", p.Description)
	b.Field("Price", "%s", Money(p.Price))
	b.Field("Stock Level", "%s units", Count(p.Stock))
	b.Field("Image URL", "%s", p.ImageURL)
	b.Section("Sales Information")
	b.Field("Total Orders", "%s", Count(orderCount))
	b.Field("Stock Status", "%s", stockStatus(p.Stock))
	return b.String()
}

// ProductNotFound is the dedicated message for a missing product
// identifier.
func ProductNotFound(id int64) string {
	return fmt.Sprintf("Product with ID %d not found.", id)
}

// ProductList renders the full product inventory in identifier order.
func ProductList(products []models.Product) string {
	if len(products) == 0 {
		return "No products found in the database."
	}

	var b Builder
	b.Title("All Products Inventory")
	for _, p := range products {
		b.Line("\n%s (ID: %d)", p.Name, p.ID)
		b.Line("  - Price: %s", Money(p.Price))
		b.Line("  - Stock: %s units", Count(p.Stock))
		b.Line("  - Status: %s", stockStatus(p.Stock))
		b.Line("  - Description: %s", p.Description)
	}
	return b.String()
}

func stockStatus(stock int64) string {
	if stock > 0 {
		return "In Stock"
	}
	return "Out of Stock"
}

// RevenueAnalysis renders windowed revenue grouped by period. Totals are
// computed over the returned groups.
func RevenueAnalysis(days int, groupBy string, periods []models.PeriodRevenue) string {
	if len(periods) == 0 {
		return fmt.Sprintf("No revenue data found for the last %d days.", days)
	}

	var totalRevenue float64
	var totalOrders int64
	for _, pr := range periods {
		totalRevenue += pr.Revenue
		totalOrders += pr.Orders
	}
	avgOrder := ratio(totalRevenue, float64(totalOrders))

	var b Builder
	b.Title("Revenue Analysis (Last %d Days - Grouped by %s)", days, groupBy)
	b.Section("Summary")
	b.Field("Total Revenue", "%s", Money(totalRevenue))
	b.Field("Total Orders", "%s", Count(totalOrders))
	b.Field("Average Order Value", "%s", Money(avgOrder))
	b.Field("Periods Analyzed", "%d", len(periods))
	b.Section("Period Breakdown")
	for _, pr := range periods {
		b.Line("  %s: %s orders | %s revenue | %s avg",
			pr.Period, Count(pr.Orders), Money(pr.Revenue), Money(pr.AvgOrder))
	}
	return b.String()
}

// CustomerDetail renders a named customer's windowed activity, itemizing
// the most recent shown orders.
func CustomerDetail(name string, days int, orders []models.Order, shown int) string {
	if len(orders) == 0 {
		return fmt.Sprintf("No orders found for customer %q in the last %d days.", name, days)
	}

	var totalSpent float64
	for _, o := range orders {
		totalSpent += o.TotalAmount
	}
	avgOrder := ratio(totalSpent, float64(len(orders)))

	var b Builder
	b.Title("Customer Analysis: %s", name)
	b.Section(fmt.Sprintf("Summary (%d days)", days))
	b.Field("Total Orders", "%s", Count(int64(len(orders))))
	b.Field("Total Spent", "%s", Money(totalSpent))
	b.Field("Average Order", "%s", Money(avgOrder))
	b.Field("Phone", "%s", orders[0].CustomerPhone)
	b.Field("Address", "%s", orders[0].CustomerAddress)
	b.Section("Recent Orders")
	for i, o := range orders {
		if i >= shown {
			break
		}
		b.Line("  Order %d: %s | %s | %s",
			o.ID, Money(o.TotalAmount), o.Status, ShortDateTime(o.CreatedAt))
	}
	return b.String()
}

// CustomerRanking renders the window-wide customer ranking with overview
// aggregates.
func CustomerRanking(days int, ov models.CustomerOverview, ranks []models.CustomerRank) string {
	if len(ranks) == 0 {
		return fmt.Sprintf("No customer data found for the last %d days.", days)
	}

	perCustomer := ratio(float64(ov.TotalOrders), float64(ov.UniqueCustomers))

	var b Builder
	b.Title("Customer Analysis (Last %d Days)", days)
	b.Section("Overview")
	b.Field("Unique Customers", "%s", Count(ov.UniqueCustomers))
	b.Field("Total Orders", "%s", Count(ov.TotalOrders))
	b.Field("Total Revenue", "%s", Money(ov.TotalRevenue))
	b.Field("Orders per Customer", "%.1f", perCustomer)
	b.Section("Top Customers (by spending)")
	for _, cr := range ranks {
		b.Line("  %s: %d orders | %s | avg %s | last: %s",
			cr.Name, cr.Orders, Money(cr.TotalSpent), Money(cr.AvgOrder), Date(cr.LastOrder))
	}
	return b.String()
}

// DailyStatistics renders one calendar date's aggregates with an
// hour-of-day breakdown.
func DailyStatistics(date string, ds models.DayStats, hours []models.HourBucket) string {
	if ds.Orders == 0 {
		return fmt.Sprintf("No orders found for %s.", date)
	}

	var b Builder
	b.Title("Daily Statistics for %s", date)
	b.Section("Summary")
	b.Field("Total Orders", "%s", Count(ds.Orders))
	b.Field("Total Revenue", "%s", Money(ds.Revenue))
	b.Field("Average Order Value", "%s", Money(ds.AvgOrder))
	b.Field("Min Order", "%s", Money(ds.MinOrder))
	b.Field("Max Order", "%s", Money(ds.MaxOrder))
	b.Field("First Order", "%s", Clock(ds.FirstOrder))
	b.Field("Last Order", "%s", Clock(ds.LastOrder))
	b.Section("Hourly Breakdown")
	if len(hours) == 0 {
		b.Line("  No hourly data available.")
		return b.String()
	}
	for _, hb := range hours {
		b.Line("  %s:00-%s:59: %d orders | %s revenue",
			hb.Hour, hb.Hour, hb.Orders, Money(hb.Revenue))
	}
	return b.String()
}

// DateRangeStatistics renders an inclusive date range's aggregates with a
// per-day breakdown annotated with the day-of-week name.
func DateRangeStatistics(start, end string, rs models.RangeStats, days []models.DayBucket) string {
	if rs.Orders == 0 {
		return fmt.Sprintf("No orders found between %s and %s.", start, end)
	}

	ordersPerDay := ratio(float64(rs.Orders), float64(rs.ActiveDays))
	revenuePerDay := ratio(rs.Revenue, float64(rs.ActiveDays))

	var b Builder
	b.Title("Date Range Statistics: %s to %s", start, end)
	b.Section("Overall Summary")
	b.Field("Total Orders", "%s", Count(rs.Orders))
	b.Field("Total Revenue", "%s", Money(rs.Revenue))
	b.Field("Average Order Value", "%s", Money(rs.AvgOrder))
	b.Field("Min Order", "%s", Money(rs.MinOrder))
	b.Field("Max Order", "%s", Money(rs.MaxOrder))
	b.Field("Active Days", "%d", rs.ActiveDays)
	b.Field("Unique Customers", "%s", Count(rs.UniqueCustomers))
	b.Field("Average Orders per Day", "%.1f", ordersPerDay)
	b.Field("Average Revenue per Day", "%s", Money(revenuePerDay))
	b.Section("Daily Breakdown (Last 30 days)")
	if len(days) == 0 {
		b.Line("  No daily data available.")
		return b.String()
	}
	for _, db := range days {
		b.Line("  %s (%s): %d orders | %s revenue | %s avg",
			db.Date, dayOfWeek(db.Date), db.Orders, Money(db.Revenue), Money(db.AvgOrder))
	}
	return b.String()
}

// dayOfWeek returns the three-letter weekday name for a YYYY-MM-DD date.
func dayOfWeek(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "???"
	}
	return t.Weekday().String()[:3]
}

// QueryResults renders an ad-hoc query's rows as labeled field lists using
// the result's column names.
func QueryResults(query string, res models.QueryResult, cap int) string {
	if res.TotalRows == 0 {
		return "Query returned no results."
	}

	var b Builder
	b.Title("Custom Query Results")
	b.Section("Query")
	b.Line("  %s", query)
	b.Section(fmt.Sprintf("Results (%d rows)", res.TotalRows))
	for i, row := range res.Rows {
		b.Line("\nRow %d:", i+1)
		for j, col := range res.Columns {
			b.Line("  - %s: %s", col, row[j])
		}
	}
	if res.TotalRows > cap {
		b.Line("\nShowing first %d rows out of %d total results.", cap, res.TotalRows)
	}
	return b.String()
}
