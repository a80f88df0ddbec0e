// Package format renders newly observed draft picks as chat lines.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcdev12/draftwatch/go/internal/draft"
	"github.com/mcdev12/draftwatch/go/internal/models"
)

// ErrUnknownFranchise means a pick references a franchise missing from the
// league's franchise index. Franchises are fetched at the same league scope
// as the draft, so this indicates mismatched data rather than a user error.
var ErrUnknownFranchise = errors.New("unknown franchise")

const lineTemplate = "%s.%s: %s, %s, %s - %d overall"

// Placeholders used when a pick cannot be resolved to a player.
var (
	SkippedPlayer = models.Player{Name: "Skipped", Position: "N/A"}
	UnknownPlayer = models.Player{Name: "Unknown", Position: "N/A"}
)

// Line is one rendered pick together with the context it was rendered from.
type Line struct {
	Key         draft.PickKey
	Pick        models.DraftPick
	Player      models.Player
	Franchise   models.Franchise
	OverallPick int
	Text        string
}

// OverallPick returns the pick's position across the whole draft.
func OverallPick(round, pick, teamsPerRound int) int {
	return (round-1)*teamsPerRound + pick
}

// ResolvePlayer looks up the player of a pick, substituting a placeholder for
// skipped picks and ids missing from the index.
func ResolvePlayer(p models.DraftPick, players map[string]models.Player) (models.Player, bool) {
	if p.Skipped() {
		return SkippedPlayer, true
	}
	player, ok := players[p.PlayerID]
	if !ok {
		return UnknownPlayer, false
	}
	return player, true
}

// Picks renders every pick of newPicks in state order.
func Picks(newPicks *draft.State, players map[string]models.Player, franchises map[string]models.Franchise, teamsPerRound int) ([]Line, error) {
	lines := make([]Line, 0, newPicks.Len())

	for _, key := range newPicks.Keys() {
		p, _ := newPicks.Get(key)

		player, _ := ResolvePlayer(p, players)

		franchise, ok := franchises[p.FranchiseID]
		if !ok {
			return nil, fmt.Errorf("%w %q for pick %s", ErrUnknownFranchise, p.FranchiseID, key)
		}

		round, err := strconv.Atoi(p.Round)
		if err != nil {
			return nil, fmt.Errorf("failed to parse round of pick %s: %w", key, err)
		}
		pickNo, err := strconv.Atoi(p.Pick)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pick number of pick %s: %w", key, err)
		}
		overall := OverallPick(round, pickNo, teamsPerRound)

		lines = append(lines, Line{
			Key:         key,
			Pick:        p,
			Player:      player,
			Franchise:   franchise,
			OverallPick: overall,
			Text:        fmt.Sprintf(lineTemplate, p.Round, p.Pick, player.Name, player.Position, franchise.Name, overall),
		})
	}

	return lines, nil
}

// Message joins the rendered lines into one message. It reports false when
// there is nothing to send.
func Message(lines []Line) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n"), true
}
