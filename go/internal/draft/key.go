package draft

import (
	"net/url"
	"strings"

	"github.com/mcdev12/draftwatch/go/internal/models"
)

// PickKey identifies one draft selection. Two picks with equal keys are the
// same event. It is a comparable struct rather than a joined string, so no
// field value can make two distinct picks collide.
type PickKey struct {
	FranchiseID string
	Round       string
	Pick        string
	PlayerID    string
}

// KeyOf returns the key of a pick.
func KeyOf(p models.DraftPick) PickKey {
	return PickKey{
		FranchiseID: p.FranchiseID,
		Round:       p.Round,
		Pick:        p.Pick,
		PlayerID:    p.PlayerID,
	}
}

// String renders the key with every field path-escaped, so the rendering is
// as collision free as the key itself. It is used for logs and message ids.
func (k PickKey) String() string {
	parts := []string{
		url.PathEscape(k.FranchiseID),
		url.PathEscape(k.Round),
		url.PathEscape(k.Pick),
		url.PathEscape(k.PlayerID),
	}
	return strings.Join(parts, "/")
}
