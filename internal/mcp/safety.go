package mcp

import (
	"fmt"
	"strings"
)

// mutatingKeywords are rejected anywhere in an ad-hoc query,
// case-insensitively, as plain substrings.
var mutatingKeywords = []string{
	"DELETE", "DROP", "INSERT", "UPDATE", "ALTER", "CREATE", "TRUNCATE",
}

// UnsafeQueryError reports why an ad-hoc query was rejected.
type UnsafeQueryError struct {
	Reason  string
	Keyword string
}

func (e *UnsafeQueryError) Error() string {
	return e.Reason
}

// CheckReadOnly rejects any ad-hoc query that is not a pure read. The query
// must start with SELECT (after trimming, case-insensitively) and must not
// contain any mutating keyword as a substring anywhere.
//
// This is a textual heuristic, not a parser-level guarantee: a legitimate
// SELECT that embeds a keyword inside a string literal or an identifier
// (say, a column named last_updated) is falsely rejected, and a mutating
// statement using a keyword outside the set would be falsely accepted.
// Both are accepted risk; the check is intentionally not a query-plan
// inspection.
func CheckReadOnly(query string) error {
	trimmed := strings.TrimSpace(query)
	upper := strings.ToUpper(trimmed)

	if !strings.HasPrefix(upper, "SELECT") {
		return &UnsafeQueryError{
			Reason: "only SELECT queries are allowed: not a read query",
		}
	}

	for _, kw := range mutatingKeywords {
		if strings.Contains(upper, kw) {
			return &UnsafeQueryError{
				Reason:  fmt.Sprintf("query contains dangerous keyword %q; only SELECT queries are allowed", kw),
				Keyword: kw,
			}
		}
	}

	return nil
}
