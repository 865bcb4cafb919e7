package store

import (
	"encoding/json"

	"github.com/michael-freling/tabletop-clock/internal/clock"
)

const schemaVersion = 2

// schema identifies the layout a stored blob was written with
type schema int

const (
	schemaEmpty schema = iota
	schemaCorrupt
	// schemaFlat is the oldest layout: a single game at the top level
	schemaFlat
	// schemaModeMap is an unversioned map from mode to game
	schemaModeMap
	schemaCurrent
)

func (s schema) String() string {
	switch s {
	case schemaEmpty:
		return "empty"
	case schemaCorrupt:
		return "corrupt"
	case schemaFlat:
		return "v0"
	case schemaModeMap:
		return "v1"
	default:
		return "v2"
	}
}

type document struct {
	Version int               `json:"version"`
	Games   map[string]record `json:"games"`
}

type record struct {
	GameID        string       `json:"gameId"`
	Time1         int          `json:"time1"`
	Time2         int          `json:"time2"`
	Active        int          `json:"active"`
	TurnCount     int          `json:"turnCount"`
	TurnStartTime int          `json:"turnStartTime"`
	Mode          string       `json:"mode"`
	Config        clock.Config `json:"config"`
	GameState     string       `json:"gameState"`
}

func newRecord(snap clock.Snapshot) record {
	return record{
		GameID:        snap.GameID,
		Time1:         snap.Times[0],
		Time2:         snap.Times[1],
		Active:        int(snap.Active),
		TurnCount:     snap.TurnCount,
		TurnStartTime: snap.TurnStartTime,
		Mode:          string(snap.Mode),
		Config:        snap.Config,
		GameState:     string(snap.State),
	}
}

func (r record) snapshot(mode clock.Mode) clock.Snapshot {
	return clock.Snapshot{
		GameID:        r.GameID,
		Times:         [2]int{r.Time1, r.Time2},
		Active:        clock.Side(r.Active),
		TurnCount:     r.TurnCount,
		TurnStartTime: r.TurnStartTime,
		Mode:          mode,
		Config:        r.Config,
		State:         clock.State(r.GameState),
	}
}

// decode parses a stored blob of any known layout. Games stored under an
// unknown mode are dropped.
func decode(data []byte) (map[clock.Mode]record, schema) {
	games := make(map[clock.Mode]record)
	if len(data) == 0 {
		return games, schemaEmpty
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return games, schemaCorrupt
	}

	var raw map[string]record
	detected := schemaModeMap
	switch {
	case top["version"] != nil:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil || doc.Version != schemaVersion {
			return games, schemaCorrupt
		}
		raw = doc.Games
		detected = schemaCurrent
	case top["time1"] != nil:
		return games, schemaFlat
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return games, schemaCorrupt
		}
	}

	for key, rec := range raw {
		mode, err := clock.ParseMode(key)
		if err != nil {
			continue
		}
		games[mode] = rec
	}
	return games, detected
}

func encode(games map[clock.Mode]record) ([]byte, error) {
	doc := document{
		Version: schemaVersion,
		Games:   make(map[string]record, len(games)),
	}
	for mode, rec := range games {
		doc.Games[string(mode)] = rec
	}
	return json.Marshal(doc)
}
