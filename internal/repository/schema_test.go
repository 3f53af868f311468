package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-entry/migrations"
)

// tableColumns lists the column names declared by CREATE TABLE in a migration.
func tableColumns(t *testing.T, file, table string) []string {
	t.Helper()
	raw, err := migrations.FS.ReadFile(file)
	require.NoError(t, err)

	body := string(raw)
	start := strings.Index(body, "CREATE TABLE IF NOT EXISTS "+table+" (")
	require.NotEqual(t, -1, start, "table %s not found in %s", table, file)
	body = body[start:]
	body = body[strings.Index(body, "(")+1 : strings.Index(body, "\n);")]

	var columns []string
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		columns = append(columns, fields[0])
	}
	return columns
}

func TestMembersSchema_EveryColumnIsRead(t *testing.T) {
	columns := tableColumns(t, "00001_members.sql", "members")
	require.NotEmpty(t, columns)

	for _, column := range columns {
		assert.Contains(t, selectSubject, "m."+column, "members.%s is never read", column)
	}
}
