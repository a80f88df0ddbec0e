package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcdev12/draftwatch/go/internal/draft"
	"github.com/mcdev12/draftwatch/go/internal/models"
)

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestPicks(t *testing.T) {
	players := map[string]models.Player{
		"900": {ID: "900", Name: "Alice", Position: "WR"},
	}
	franchises := map[string]models.Franchise{
		"1": {ID: "1", Name: "Foxes"},
		"2": {ID: "2", Name: "Bears"},
	}

	t.Run("two new picks with one skip", func(t *testing.T) {
		current := []models.DraftPick{
			{FranchiseID: "1", Round: "1", Pick: "1", PlayerID: "900", Timestamp: "t1"},
			{FranchiseID: "2", Round: "1", Pick: "2", PlayerID: "----", Timestamp: "t2"},
		}
		_, newPicks := draft.ComputeDelta(current, draft.NewState())

		lines, err := Picks(newPicks, players, franchises, 2)
		require.NoError(t, err)
		require.Equal(t, []string{
			"1.1: Alice, WR, Foxes - 1 overall",
			"1.2: Skipped, N/A, Bears - 2 overall",
		}, texts(lines))

		msg, ok := Message(lines)
		require.True(t, ok)
		require.Equal(t, "1.1: Alice, WR, Foxes - 1 overall\n1.2: Skipped, N/A, Bears - 2 overall", msg)
	})

	t.Run("overall pick uses teams per round", func(t *testing.T) {
		newPicks := draft.NewState()
		newPicks.Add(models.DraftPick{FranchiseID: "2", Round: "03", Pick: "04", PlayerID: "900", Timestamp: "t"})

		lines, err := Picks(newPicks, players, franchises, 12)
		require.NoError(t, err)
		require.Equal(t, 28, lines[0].OverallPick)
		require.Equal(t, "03.04: Alice, WR, Bears - 28 overall", lines[0].Text)
	})

	t.Run("player missing from index gets placeholder", func(t *testing.T) {
		newPicks := draft.NewState()
		newPicks.Add(models.DraftPick{FranchiseID: "1", Round: "1", Pick: "1", PlayerID: "15000", Timestamp: "t"})

		lines, err := Picks(newPicks, players, franchises, 2)
		require.NoError(t, err)
		require.Equal(t, "1.1: Unknown, N/A, Foxes - 1 overall", lines[0].Text)
	})

	t.Run("franchise missing from index is an error", func(t *testing.T) {
		newPicks := draft.NewState()
		newPicks.Add(models.DraftPick{FranchiseID: "9", Round: "1", Pick: "1", PlayerID: "900", Timestamp: "t"})

		_, err := Picks(newPicks, players, franchises, 2)
		require.ErrorIs(t, err, ErrUnknownFranchise)
	})

	t.Run("non-numeric round is an error", func(t *testing.T) {
		newPicks := draft.NewState()
		newPicks.Add(models.DraftPick{FranchiseID: "1", Round: "R1", Pick: "1", PlayerID: "900", Timestamp: "t"})

		_, err := Picks(newPicks, players, franchises, 2)
		require.Error(t, err)
	})

	t.Run("no picks renders no message", func(t *testing.T) {
		lines, err := Picks(draft.NewState(), players, franchises, 2)
		require.NoError(t, err)
		require.Empty(t, lines)

		_, ok := Message(lines)
		require.False(t, ok)
	})
}

func TestOverallPick(t *testing.T) {
	require.Equal(t, 1, OverallPick(1, 1, 12))
	require.Equal(t, 12, OverallPick(1, 12, 12))
	require.Equal(t, 13, OverallPick(2, 1, 12))
}
