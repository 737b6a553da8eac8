package customerstats

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Колонки, на которые ссылаются запросы репозитория
// (upsert в IncrementBookings и update в DecrementBookings)
var statsColumns = []string{
	"tenant_id",
	"customer_id",
	"total_bookings",
	"last_booking_at",
	"updated_at",
}

func TestMigrationDeclaresStatsColumns(t *testing.T) {
	raw, err := os.ReadFile("../../../../migrations/001_init.sql")
	require.NoError(t, err)

	ddl := statsTableDDL(t, string(raw))
	for _, column := range statsColumns {
		assert.Contains(t, ddl, column, "customer_booking_stats is missing column %s", column)
	}
}

// statsTableDDL вырезает блок CREATE TABLE customer_booking_stats из миграции
func statsTableDDL(t *testing.T, migration string) string {
	t.Helper()

	start := strings.Index(migration, "CREATE TABLE IF NOT EXISTS customer_booking_stats")
	require.GreaterOrEqual(t, start, 0, "customer_booking_stats table not found in migration")

	end := strings.Index(migration[start:], ");")
	require.GreaterOrEqual(t, end, 0, "unterminated customer_booking_stats DDL")

	return migration[start : start+end]
}
