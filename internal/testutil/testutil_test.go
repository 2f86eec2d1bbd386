package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySamples(t *testing.T) {
	t.Parallel()

	s := DailySamples(Date(2020, time.February, 28), 3, Constant(50))
	require.Len(t, s, 3)
	assert.Equal(t, Date(2020, time.February, 29), s[1].Date)
	assert.Equal(t, Date(2020, time.March, 1), s[2].Date)
	for _, x := range s {
		assert.Equal(t, 50.0, x.Value)
	}
}

func TestSeasonal(t *testing.T) {
	t.Parallel()

	jan := Seasonal(0, Date(2021, time.January, 15))
	jul := Seasonal(0, Date(2021, time.July, 16))
	assert.InDelta(t, 40, jan, 0.01)
	assert.InDelta(t, 80, jul, 0.1)

	s := DailySamples(Date(2021, time.January, 1), 365, nil)
	for _, x := range s {
		assert.GreaterOrEqual(t, x.Value, 40.0)
		assert.LessOrEqual(t, x.Value, 80.0)
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	got := CSV("SEA", DailySamples(Date(2021, time.January, 1), 2, Constant(44.6)))
	lines := strings.Split(strings.TrimSpace(got), "\n")
	assert.Equal(t, []string{
		"STATION,DATE,TMAX",
		"SEA,2021-01-01,45",
		"SEA,2021-01-02,45",
	}, lines)
}
