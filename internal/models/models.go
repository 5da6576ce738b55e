package models

import (
	"encoding/json"
	"time"
)

// Product is a row from the product table. The store owns the data; this
// service only reads it.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderItem is one line item inside an order. Product name and price are
// snapshots taken at order time; they are intentionally denormalized for
// historical accuracy and must not be re-derived from the product table.
type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
}

// Order is a row from the order table. RawItems carries the serialized
// line-item list exactly as stored.
type Order struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	RawItems        string    `json:"items"`
	TotalAmount     float64   `json:"total_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Items deserializes the embedded line-item list.
func (o *Order) Items() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal([]byte(o.RawItems), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Order status values. The store never holds anything outside this set.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDelivered  = "delivered"
)

// WindowStats holds aggregates over a trailing window of days.
type WindowStats struct {
	Count int64
	Sum   float64
	Avg   float64
}

// StatusCount is one row of a status-grouped breakdown.
type StatusCount struct {
	Status  string
	Count   int64
	Revenue float64
}

// RangeAggregate holds aggregates over the full set of orders matching a
// date range, independent of any row cap applied to the itemized listing.
type RangeAggregate struct {
	Count int64
	Sum   float64
	Avg   float64
}

// PeriodRevenue is one group of a revenue analysis (a day, week, or month).
type PeriodRevenue struct {
	Period   string
	Orders   int64
	Revenue  float64
	AvgOrder float64
}

// CustomerRank is one row of the window-wide customer ranking.
type CustomerRank struct {
	Name       string
	Orders     int64
	TotalSpent float64
	AvgOrder   float64
	LastOrder  time.Time
}

// CustomerOverview holds window-wide customer aggregates.
type CustomerOverview struct {
	UniqueCustomers int64
	TotalOrders     int64
	TotalRevenue    float64
}

// DayStats holds the aggregates for a single calendar date.
type DayStats struct {
	Orders     int64
	Revenue    float64
	AvgOrder   float64
	MinOrder   float64
	MaxOrder   float64
	FirstOrder time.Time
	LastOrder  time.Time
}

// HourBucket is one hour of a daily hour-of-day breakdown.
type HourBucket struct {
	Hour    string
	Orders  int64
	Revenue float64
}

// RangeStats holds the aggregates for an inclusive calendar-date range.
type RangeStats struct {
	Orders          int64
	Revenue         float64
	AvgOrder        float64
	MinOrder        float64
	MaxOrder        float64
	ActiveDays      int64
	UniqueCustomers int64
}

// DayBucket is one day of a date-range daily breakdown.
type DayBucket struct {
	Date     string
	Orders   int64
	Revenue  float64
	AvgOrder float64
}

// QueryResult holds the outcome of an ad-hoc read query: column names, the
// capped rows (each value already rendered as text), and the total number of
// matching rows before the cap.
type QueryResult struct {
	Columns   []string
	Rows      [][]string
	TotalRows int
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
