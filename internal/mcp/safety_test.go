package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadOnly_AcceptsSelect(t *testing.T) {
	for _, q := range []string{
		"SELECT * FROM product",
		"select name from product",
		"  \n\tSELECT COUNT(*) FROM \"order\"",
		"Select id, status from \"order\" where status = 'pending'",
	} {
		assert.NoError(t, CheckReadOnly(q), "query %q should pass", q)
	}
}

func TestCheckReadOnly_RejectsNonSelect(t *testing.T) {
	for _, q := range []string{
		"PRAGMA table_info(product)",
		"EXPLAIN SELECT * FROM product",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"",
		"   ",
	} {
		err := CheckReadOnly(q)
		require.Error(t, err, "query %q should be rejected", q)
		ue := err.(*UnsafeQueryError)
		assert.Contains(t, ue.Reason, "not a read query")
		assert.Empty(t, ue.Keyword)
	}
}

func TestCheckReadOnly_RejectsMutatingKeywords(t *testing.T) {
	cases := map[string]string{
		"SELECT 1; DELETE FROM product":              "DELETE",
		"SELECT 1; drop table product":               "DROP",
		"SELECT * FROM product WHERE name='insert'":  "INSERT",
		"SELECT 1; UPDATE product SET price=0":       "UPDATE",
		"SELECT 1; alter table product add col x":    "ALTER",
		"SELECT 1; CREATE TABLE evil (id)":           "CREATE",
		"SELECT 1; TRUNCATE product":                 "TRUNCATE",
		"SELECT last_updated FROM product":           "UPDATE", // substring match, accepted risk
		"SELECT * FROM product_created_log":          "CREATE", // substring match, accepted risk
	}

	for q, keyword := range cases {
		err := CheckReadOnly(q)
		require.Error(t, err, "query %q should be rejected", q)
		ue := err.(*UnsafeQueryError)
		assert.Equal(t, keyword, ue.Keyword, "query %q", q)
		assert.Contains(t, ue.Reason, keyword)
	}
}

func TestCheckReadOnly_CaseInsensitiveEverywhere(t *testing.T) {
	err := CheckReadOnly("SELECT * FROM t WHERE c = 'DeLeTe'")
	require.Error(t, err)
	assert.Equal(t, "DELETE", err.(*UnsafeQueryError).Keyword)
}
