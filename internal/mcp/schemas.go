package mcp

// ParamKind enumerates the argument kinds a tool schema can declare.
type ParamKind int

const (
	KindInt ParamKind = iota
	KindString
	KindEnum
	KindDate
)

// Param declares one tool parameter. The declared schema is the sole source
// of truth for validation: the JSON Schema published in the tool catalog is
// generated from the same declaration the validator checks against.
type Param struct {
	Name        string
	Kind        ParamKind
	Required    bool
	Default     interface{}
	Enum        []string
	Description string
}

// InputSchema renders a parameter list as a JSON Schema (Draft 7) object
// for the tool catalog.
func InputSchema(params []Param) map[string]interface{} {
	properties := map[string]interface{}{}
	var required []string

	for _, p := range params {
		prop := map[string]interface{}{
			"description": p.Description,
		}
		switch p.Kind {
		case KindInt:
			prop["type"] = "integer"
		case KindEnum:
			prop["type"] = "string"
			enum := make([]interface{}, len(p.Enum))
			for i, v := range p.Enum {
				enum[i] = v
			}
			prop["enum"] = enum
		default:
			prop["type"] = "string"
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// toolSpec couples a descriptor with its typed parameter declarations.
type toolSpec struct {
	Name        string
	Description string
	Params      []Param
}

func (ts toolSpec) Tool() Tool {
	return Tool{
		Name:        ts.Name,
		Description: ts.Description,
		InputSchema: InputSchema(ts.Params),
	}
}

// toolSpecs is the full tool catalog in registration order.
func toolSpecs() []toolSpec {
	return []toolSpec{
		{
			Name:        "get_order_details",
			Description: "Get detailed information about a specific order by ID or customer name",
			Params: []Param{
				{Name: "order_id", Kind: KindInt, Description: "Order ID to search for"},
				{Name: "customer_name", Kind: KindString, Description: "Customer name to search for (partial match supported)"},
			},
		},
		{
			Name:        "get_order_summary",
			Description: "Get summary statistics about orders (total, recent, by status)",
			Params: []Param{
				{Name: "days", Kind: KindInt, Default: 30, Description: "Number of recent days to analyze (default: 30)"},
			},
		},
		{
			Name:        "search_orders_by_date",
			Description: "Search orders within a specific date range",
			Params: []Param{
				{Name: "start_date", Kind: KindDate, Required: true, Description: "Start date (YYYY-MM-DD format)"},
				{Name: "end_date", Kind: KindDate, Required: true, Description: "End date (YYYY-MM-DD format)"},
			},
		},
		{
			Name:        "get_product_details",
			Description: "Get detailed information about products and inventory",
			Params: []Param{
				{Name: "product_id", Kind: KindInt, Description: "Specific product ID to query"},
			},
		},
		{
			Name:        "get_revenue_analysis",
			Description: "Analyze revenue patterns and trends",
			Params: []Param{
				{Name: "days", Kind: KindInt, Default: 30, Description: "Number of days to analyze (default: 30)"},
				{Name: "group_by", Kind: KindEnum, Default: "day", Enum: []string{"day", "week", "month"}, Description: "How to group the analysis (default: day)"},
			},
		},
		{
			Name:        "get_customer_analysis",
			Description: "Analyze customer behavior and order patterns",
			Params: []Param{
				{Name: "customer_name", Kind: KindString, Description: "Specific customer to analyze (optional)"},
				{Name: "days", Kind: KindInt, Default: 30, Description: "Number of days to analyze (default: 30)"},
			},
		},
		{
			Name:        "get_daily_statistics",
			Description: "Get total orders and revenue for a specific date",
			Params: []Param{
				{Name: "date", Kind: KindDate, Required: true, Description: "Date in YYYY-MM-DD format (e.g., '2025-08-06')"},
			},
		},
		{
			Name:        "get_date_range_statistics",
			Description: "Get orders and revenue statistics for a date range",
			Params: []Param{
				{Name: "start_date", Kind: KindDate, Required: true, Description: "Start date in YYYY-MM-DD format"},
				{Name: "end_date", Kind: KindDate, Required: true, Description: "End date in YYYY-MM-DD format"},
			},
		},
		{
			Name:        "execute_custom_query",
			Description: "Execute a custom SQL query (SELECT only for safety)",
			Params: []Param{
				{Name: "query", Kind: KindString, Required: true, Description: "SQL SELECT query to execute"},
			},
		},
	}
}
