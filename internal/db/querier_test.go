package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
)

func TestSetClause(t *testing.T) {
	var set db.SetClause
	set.Add("name", "Jane")
	set.Add("number", "555")
	where := set.Next("jane@example.com")

	sql, args := set.SQL()
	assert.Equal(t, "name = $1, number = $2", sql)
	assert.Equal(t, "$3", where)
	assert.Equal(t, []any{"Jane", "555", "jane@example.com"}, args)
	assert.Equal(t, 2, set.Len())
}

func TestSetClause_Empty(t *testing.T) {
	var set db.SetClause
	sql, args := set.SQL()
	assert.Empty(t, sql)
	assert.Empty(t, args)
	assert.Equal(t, 0, set.Len())
}
