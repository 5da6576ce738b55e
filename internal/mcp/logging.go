package mcp

import (
	"context"
	"log/slog"
)

// LogToolRequest logs an incoming tool call with structured fields.
func LogToolRequest(ctx context.Context, logger *slog.Logger, tool string, correlationID string) {
	logger.InfoContext(ctx, "tool_request",
		"component", "dispatcher",
		"tool_name", tool,
		"correlation_id", correlationID,
	)
}

// LogToolSuccess logs a completed tool call with latency and cache state.
func LogToolSuccess(ctx context.Context, logger *slog.Logger, tool string, correlationID string, cacheHit bool, latencyMS int64) {
	logger.InfoContext(ctx, "tool_success",
		"component", "dispatcher",
		"tool_name", tool,
		"correlation_id", correlationID,
		"cache_hit", cacheHit,
		"latency_ms", latencyMS,
	)
}

// LogToolError logs a failed tool call with its RPC error code.
func LogToolError(ctx context.Context, logger *slog.Logger, tool string, correlationID string, errorCode int, errorMsg string) {
	logger.ErrorContext(ctx, "tool_error",
		"component", "dispatcher",
		"tool_name", tool,
		"correlation_id", correlationID,
		"error_code", errorCode,
		"error_message", errorMsg,
	)
}
