package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_IgnoresTimeOfDay(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []time.Time{
		time.Date(2024, 3, 5, 0, 0, 0, 0, paris),
		time.Date(2024, 3, 5, 23, 59, 59, 0, paris),
		time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC),
	}
	for _, tm := range tests {
		assert.Equal(t, "2024-03-05", DateOf(tm).String())
	}
}

func TestDate_JSON(t *testing.T) {
	d := MustParseDate("2024-03-05")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"05/03/2024"`), &back), ErrInvalidDate)
	assert.ErrorIs(t, json.Unmarshal([]byte(`12`), &back), ErrInvalidDate)
}

func TestDate_Ordering(t *testing.T) {
	early := MustParseDate("2024-01-31")
	late := MustParseDate("2024-02-01")

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.False(t, early.After(early))
}

func TestApplicationRequest_NullPublicationDate(t *testing.T) {
	req := ApplicationRequest{
		Country:         "FR",
		CompanyName:     "Acme",
		JobTitle:        "Go developer",
		ApplicationDate: MustParseDate("2024-03-05"),
		Status:          StatusSent,
		Contacts:        Contacts{}.Normalize(),
		FollowUpDates:   []Date{},
		SentFiles:       []string{},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"publicationDate":null`)
	assert.Contains(t, s, `"applicationDate":"2024-03-05"`)
	assert.Contains(t, s, `"names":[]`)
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}
	assert.False(t, Status("Ghosted").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Entretien prévu", StatusInterviewScheduled.Label("fr"))
	assert.Equal(t, "Interview Scheduled", StatusInterviewScheduled.Label("en"))
}
