// Package live fans game changes out to viewers: an asynchronous publisher in front of one or
// more sinks (the local websocket hub, a Redis channel shared by every instance).
package live

import (
	"encoding/json"

	"github.com/Dosada05/livescore/models"
	"github.com/google/uuid"
)

// Update is one change notification. It is encoded as a single flat JSON object: the fixed
// keys below plus every entry of Fields.
type Update struct {
	ID         string
	Kind       string
	GameID     int
	Sport      models.Sport
	Status     models.GameStatus
	Team1Score int
	Team2Score int
	Fields     map[string]any
}

// NewUpdate snapshots the scoreboard of g.
func NewUpdate(kind string, g *models.Game, fields map[string]any) Update {
	return Update{
		ID:         uuid.NewString(),
		Kind:       kind,
		GameID:     g.ID,
		Sport:      g.Sport,
		Status:     g.Status,
		Team1Score: g.Team1Score,
		Team2Score: g.Team2Score,
		Fields:     fields,
	}
}

func (u Update) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+7)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["id"] = u.ID
	out["kind"] = u.Kind
	out["game_id"] = u.GameID
	out["sport"] = u.Sport
	out["status"] = u.Status
	out["team1_score"] = u.Team1Score
	out["team2_score"] = u.Team2Score
	return json.Marshal(out)
}
