package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/yearwheel/internal/series"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_AppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, s.MigrateUp())
}

func TestImportAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	obs := []series.Observation{
		{Date: day(2020, time.February, 28), Value: 40, Valid: true},
		{Date: day(2020, time.February, 29), Value: math.NaN()},
		{Date: day(2020, time.March, 2), Value: 46, Valid: true},
	}
	b, err := s.Import(ctx, "SEATAC", "seatac.csv", obs)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Rows)

	got, err := s.Observations(ctx, "SEATAC")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, day(2020, time.February, 28), got[0].Date)
	assert.False(t, got[1].Valid)
	assert.True(t, got[2].Valid)

	samples, err := s.LoadSamples(ctx, "SEATAC")
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 42, 44, 46}, series.Values(samples))
	assert.Equal(t, day(2020, time.March, 1), samples[2].Date)
}

func TestImport_UpsertsAndTracksBatches(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.Import(ctx, "PDX", "a.csv", []series.Observation{
		{Date: day(2021, time.July, 1), Value: 80, Valid: true},
		{Date: day(2021, time.July, 2), Value: 82, Valid: true},
	})
	require.NoError(t, err)
	second, err := s.Import(ctx, "PDX", "b.csv", []series.Observation{
		{Date: day(2021, time.July, 2), Value: 90, Valid: true},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.Observations(ctx, "PDX")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 90.0, got[1].Value)

	batches, err := s.Batches(ctx, "PDX")
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, first.ID, batches[0].ID)
	assert.Equal(t, "b.csv", batches[1].Source)
	assert.Equal(t, 1, batches[1].Rows)

	_, err = s.Import(ctx, "SEA", "c.csv", []series.Observation{{Date: day(2021, time.July, 1), Value: 70, Valid: true}})
	require.NoError(t, err)
	stations, err := s.Stations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PDX", "SEA"}, stations)
}

func TestImport_FirstDuplicateInBatchWins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	obs := []series.Observation{
		{Date: day(2020, time.January, 1), Value: 10, Valid: true},
		{Date: day(2020, time.January, 2), Value: 20, Valid: true},
		{Date: day(2020, time.January, 2), Value: 99, Valid: true},
		{Date: day(2020, time.January, 3), Value: 30, Valid: true},
	}
	b, err := s.Import(ctx, "SEATAC", "dups.csv", obs)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Rows)

	batches, err := s.Batches(ctx, "SEATAC")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 3, batches[0].Rows)

	stored, err := s.LoadSamples(ctx, "SEATAC")
	require.NoError(t, err)
	direct, err := series.Fill(obs)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, series.Values(stored))
	assert.Equal(t, series.Values(direct), series.Values(stored))
}

func TestImport_RequiresStation(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Import(context.Background(), "", "x.csv", nil)
	assert.Error(t, err)
}

func TestLoadSamples_UnknownStation(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadSamples(context.Background(), "NOPE")
	assert.ErrorIs(t, err, series.ErrNoSamples)
}
