package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateSet_StartsWithToday(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := NewDateSet(today)

	require.Equal(t, 1, s.Len())
	assert.True(t, s.Dates()[0].Equal(today))
}

func TestDateSet_AddRejectsSameInstant(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := NewDateSet(today)

	assert.False(t, s.Add(today))
	assert.False(t, s.Add(today.In(time.FixedZone("CET", 3600))), "same instant, other zone")
	assert.True(t, s.Add(today.Add(time.Millisecond)))
	assert.True(t, s.Add(today.AddDate(0, 0, 7)))
	assert.Equal(t, 3, s.Len())
}

func TestDateSet_KeepsInsertionOrder(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	later := today.AddDate(0, 0, 14)
	earlier := today.AddDate(0, 0, -3)

	s := NewDateSet(today)
	s.Add(later)
	s.Add(earlier)

	dates := s.Dates()
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Equal(today))
	assert.True(t, dates[1].Equal(later))
	assert.True(t, dates[2].Equal(earlier))
}

func TestDateSet_Remove(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := NewDateSet(today)
	s.Add(today.AddDate(0, 0, 1))
	s.Add(today.AddDate(0, 0, 2))

	s.Remove(1)
	dates := s.Dates()
	require.Len(t, dates, 2)
	assert.True(t, dates[1].Equal(today.AddDate(0, 0, 2)))

	s.Remove(-1)
	s.Remove(5)
	assert.Equal(t, 2, s.Len())

	s.Remove(0)
	s.Remove(0)
	assert.Equal(t, 0, s.Len())
}

func TestDateSet_DatesIsACopy(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := NewDateSet(today)

	dates := s.Dates()
	dates[0] = today.AddDate(1, 0, 0)

	assert.True(t, s.Dates()[0].Equal(today))
}

func TestDateSet_Reset(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := NewDateSet(today)
	s.Add(today.AddDate(0, 0, 1))

	tomorrow := today.AddDate(0, 0, 1)
	s.Reset(tomorrow)

	require.Equal(t, 1, s.Len())
	assert.True(t, s.Dates()[0].Equal(tomorrow))
}

func TestParseInputDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	got, err := ParseInputDate("2024-03-05", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ParseInputDate(" 05/03/2024 ", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	_, err = ParseInputDate("March 5th", time.UTC)
	assert.Error(t, err)
}
