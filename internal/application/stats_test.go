package application

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appsWith(statuses ...Status) []Application {
	out := make([]Application, len(statuses))
	for i, s := range statuses {
		out[i] = Application{ID: int64(i + 1), Status: s}
	}
	return out
}

func TestAggregate_Empty(t *testing.T) {
	for _, in := range [][]Application{nil, {}} {
		st := Aggregate(in)
		assert.Equal(t, 0, st.Total)
		for _, s := range Statuses() {
			assert.Equal(t, 0, st.Count(s), s)
		}
		for s, p := range st.Percentages() {
			assert.Equal(t, 0, p, s)
		}
		assert.Equal(t, Rollup{}, st.Interview())
	}
}

func TestAggregate_SumEqualsTotal(t *testing.T) {
	st := Aggregate(appsWith(
		StatusApplied, StatusApplied, StatusTest, StatusInterviewHR,
		StatusOffered, StatusAccepted, StatusRejected, StatusRejected, StatusWithdrawn,
		StatusLegacyInterview, "mystery",
	))

	sum := st.Other
	for _, n := range st.Counts() {
		sum += n
	}
	assert.Equal(t, 11, st.Total)
	assert.Equal(t, st.Total, sum)
	assert.Equal(t, 2, st.Count(StatusApplied))
	assert.Equal(t, 1, st.Count(StatusInterviewUser), "legacy interview is normalized")
	assert.Equal(t, 1, st.Other)
}

func TestAggregate_EveryStatusKeyPresent(t *testing.T) {
	counts := Aggregate(appsWith(StatusApplied)).Counts()
	assert.Len(t, counts, 10)
	assert.Equal(t, 0, counts[StatusWithdrawn])
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 100, Percentage(4, 4))
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(3, 0))
}

func TestStats_AcceptedPercentage(t *testing.T) {
	st := Aggregate(appsWith(StatusAccepted, StatusApplied, StatusRejected))
	assert.Equal(t, 33, st.Percentages()[StatusAccepted])
}

func TestStats_InterviewRollup(t *testing.T) {
	st := Aggregate(appsWith(
		StatusScreening, StatusTest, StatusInterviewUser, StatusInterviewHR, StatusInterviewFinal,
		StatusApplied, StatusOffered, StatusRejected,
	))
	assert.Equal(t, Rollup{Count: 5, Percentage: 63}, st.Interview())
}

func TestStats_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Aggregate(appsWith(StatusApplied, StatusTest)))
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 2, got["total"])
	assert.Equal(t, 1, got["applied"])
	assert.Equal(t, 1, got["test"])
	assert.Contains(t, got, "withdrawn")
	assert.NotContains(t, got, "other")
	assert.Len(t, got, 11)
}
