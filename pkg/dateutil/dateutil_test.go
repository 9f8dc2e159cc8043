package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	// 2023-05-17 is a Wednesday, its week starts on Monday 2023-05-15.
	wednesday := time.Date(2023, 5, 17, 15, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC), CurrentWeek(wednesday))

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2023, 5, 21, 1, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC), CurrentWeek(sunday))

	monday := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, monday, CurrentWeek(monday))
}

func TestBeginningOfDay(t *testing.T) {
	now := time.Date(2023, 5, 17, 23, 59, 59, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC), BeginningOfDay(now))
	require.Equal(t, time.Date(2023, 5, 18, 0, 0, 0, 0, time.UTC), NextDay(now))
}
