package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func regexOf(t *testing.T, query bson.M, index int) string {
	t.Helper()
	or, ok := query["$or"].(bson.A)
	require.True(t, ok)
	field, ok := or[index].(bson.M)
	require.True(t, ok)
	for _, clause := range field {
		m, ok := clause.(bson.M)
		require.True(t, ok)
		pattern, ok := m["$regex"].(string)
		require.True(t, ok)
		return pattern
	}
	t.Fatal("no $regex clause found")
	return ""
}

func TestSearchFallbackQueryEscapesRegexMetacharacters(t *testing.T) {
	cases := map[string]string{
		"laptop":  "laptop",
		"(":       `\(`,
		"a+b":     `a\+b`,
		"50% off": `50% off`,
		"[test]":  `\[test\]`,
	}
	for input, want := range cases {
		query := searchFallbackQuery(input)
		assert.Equal(t, want, regexOf(t, query, 0), "input %q", input)
		assert.Equal(t, want, regexOf(t, query, 1), "input %q", input)
	}
}

func TestSearchFallbackQueryCoversNameAndDescription(t *testing.T) {
	query := searchFallbackQuery("laptop")
	or, ok := query["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	first, _ := or[0].(bson.M)
	second, _ := or[1].(bson.M)
	assert.Contains(t, first, "name")
	assert.Contains(t, second, "description")
}
