package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusAccepted:  true,
		StatusRejected:  true,
		StatusWithdrawn: true,
	}
	for _, s := range Statuses() {
		assert.Equal(t, terminal[s], IsTerminal(s), s)
	}
	assert.False(t, IsTerminal("unknown"))
}

func TestNormalizeLegacy(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{"applied", StatusApplied},
		{"interview", StatusInterviewUser},
		{"accepted", StatusAccepted},
		{"rejected", StatusRejected},
		{"offered", StatusOffered},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLegacy(tt.in), tt.in)
	}
}

func TestStoredForms(t *testing.T) {
	assert.Equal(t, []Status{StatusInterviewUser, StatusLegacyInterview}, StoredForms(StatusInterviewUser))
	assert.Equal(t, []Status{StatusApplied}, StoredForms(StatusApplied))
	for _, s := range Statuses() {
		for _, form := range StoredForms(s) {
			assert.Equal(t, s, NormalizeLegacy(form))
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("interview_final")
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewFinal, s)

	s, err = ParseStatus("interview")
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewUser, s)

	_, err = ParseStatus("ghosted")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStatuses_OrderAndCopy(t *testing.T) {
	got := Statuses()
	require.Len(t, got, 10)
	assert.Equal(t, StatusApplied, got[0])
	assert.Equal(t, StatusWithdrawn, got[9])

	got[0] = "mutated"
	assert.Equal(t, StatusApplied, Statuses()[0])
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Test/Assessment", Label(StatusTest))
	assert.Equal(t, "Interview - Team", Label(StatusInterviewUser))
	assert.Equal(t, "something_new", Label("something_new"))
}

func TestStatusCatalog(t *testing.T) {
	cat := StatusCatalog()
	require.Len(t, cat, 10)
	for _, info := range cat {
		assert.NotEmpty(t, info.Label)
		assert.Equal(t, Rank(info.Value), info.Rank)
		assert.Equal(t, IsTerminal(info.Value), info.Terminal)
	}
}
