package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/pkg/config"
	"github.com/wonny/aistocks/pkg/database"
)

func record(date string, values map[string][2]float64) contracts.Record {
	d, _ := time.Parse("2006-01-02", date)
	rec := contracts.NewRecord(d)
	for name, v := range values {
		rec.Set(contracts.FieldPrice, name, v[0])
		rec.Set(contracts.FieldPercentChange, name, v[1])
	}
	return rec
}

func TestFlattenPivot_RoundTrip(t *testing.T) {
	r1 := record("2024-01-01", map[string][2]float64{"A": {10, 0}, "B": {20, 1}})
	r2 := record("2024-01-02", map[string][2]float64{"A": {11, 10}})
	r2.Set(contracts.FieldPercentChange, "C", -3) // no price for C

	rows := flatten([]contracts.Record{r1, r2})
	require.Len(t, rows, 4)
	assert.Equal(t, "A", rows[0].Instrument)
	assert.Nil(t, rows[3].Price)

	records := pivot(rows)
	require.Len(t, records, 2)
	assert.Equal(t, r1.Values, records[0].Values)

	_, ok := records[1].Lookup(contracts.FieldPrice, "C")
	assert.False(t, ok)
	v, ok := records[1].Lookup(contracts.FieldPercentChange, "C")
	assert.True(t, ok)
	assert.Equal(t, -3.0, v)
}

func TestFlatten_SameDayCollapses(t *testing.T) {
	morning := contracts.NewRecord(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	morning.Set(contracts.FieldPrice, "A", 10)
	morning.Set(contracts.FieldPrice, "B", 20)
	closing := contracts.NewRecord(time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC))
	closing.Set(contracts.FieldPrice, "A", 12)

	rows := flatten([]contracts.Record{morning, closing})
	require.Len(t, rows, 2)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	byName := map[string]snapshotRow{}
	for _, row := range rows {
		assert.True(t, row.Date.Equal(day), "stored at day granularity")
		byName[row.Instrument] = row
	}
	assert.Equal(t, 12.0, *byName["A"].Price)
	assert.Equal(t, 20.0, *byName["B"].Price)

	records := pivot(rows)
	require.Len(t, records, 1)
	assert.True(t, records[0].Date.Equal(day))
}

func TestPivot_Empty(t *testing.T) {
	records := pivot(nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRepository_Integration(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	rec := record("1999-01-04", map[string][2]float64{"Integration (TEST)": {1.5, 0.5}})
	n, err := repo.SaveRecords(ctx, []contracts.Record{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := repo.LoadRecords(ctx)
	require.NoError(t, err)
	assert.True(t, contracts.IsAscending(records))

	_, err = db.Pool.Exec(ctx, `DELETE FROM data.stock_snapshots WHERE instrument = $1`, "Integration (TEST)")
	require.NoError(t, err)
}
