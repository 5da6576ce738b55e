package mcp

import (
	"context"
)

// Handler executes one validated tool call and returns report text.
type Handler func(ctx context.Context, args Args) (string, error)

type registeredTool struct {
	spec    toolSpec
	handler Handler
}

// Registry maps tool names to their descriptors and handlers and drives
// the dispatch pipeline: validate, then (for the ad-hoc tool, inside its
// handler) safety filter, then query and format.
type Registry struct {
	order []string
	tools map[string]registeredTool
}

// NewRegistry builds the tool catalog over the given executor. Every
// descriptor's input schema is compiled as JSON Schema Draft 7; a
// descriptor that does not compile is a construction error.
func NewRegistry(executor *ToolExecutor) (*Registry, error) {
	specs := toolSpecs()
	handlers := map[string]Handler{
		"get_order_details":         executor.OrderDetails,
		"get_order_summary":         executor.OrderSummary,
		"search_orders_by_date":     executor.SearchOrdersByDate,
		"get_product_details":       executor.ProductDetails,
		"get_revenue_analysis":      executor.RevenueAnalysis,
		"get_customer_analysis":     executor.CustomerAnalysis,
		"get_daily_statistics":      executor.DailyStatistics,
		"get_date_range_statistics": executor.DateRangeStatistics,
		"execute_custom_query":      executor.CustomQuery,
	}

	r := &Registry{
		order: make([]string, 0, len(specs)),
		tools: make(map[string]registeredTool, len(specs)),
	}
	for _, spec := range specs {
		if _, err := CompileSchema(spec.Name, InputSchema(spec.Params)); err != nil {
			return nil, err
		}
		r.order = append(r.order, spec.Name)
		r.tools[spec.Name] = registeredTool{spec: spec, handler: handlers[spec.Name]}
	}
	return r, nil
}

// ListTools returns all tool descriptors in registration order.
func (r *Registry) ListTools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].spec.Tool())
	}
	return tools
}

// Invoke validates the raw arguments against the named tool's schema and
// runs its handler. Validation and safety failures come back as RPC
// errors; store failures are wrapped naming the tool; a successful run
// returns the report text as MCP text content.
func (r *Registry) Invoke(ctx context.Context, name string, raw map[string]interface{}) (*CallToolResult, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, &RPCError{
			Code:    MethodNotFound,
			Message: "Unknown tool",
			Data:    name,
		}
	}

	args, err := ValidateArgs(tool.spec.Params, raw)
	if err != nil {
		return nil, FormatMCPError(err)
	}

	text, err := tool.handler(ctx, args)
	if err != nil {
		if _, ok := err.(*UnsafeQueryError); ok {
			return nil, FormatMCPError(err)
		}
		return nil, StoreError(name, err)
	}

	return NewTextResult(text), nil
}
