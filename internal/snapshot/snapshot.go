// Package snapshot persists the engine's full state to a durable medium and
// replays it at startup. It is a collaborator of the engine, not part of it:
// load failures degrade to an empty collection and are logged, never
// propagated, and saves are best-effort.
package snapshot

import (
	"context"
	"encoding/json"

	"github.com/messmate/messmate-backend/internal/engine"
)

// Collection keys, one per serialized slice of state. The redis backend uses
// them verbatim; the db backend uses them as row keys.
const (
	KeyItems    = "items"
	KeyMeals    = "meals"
	KeyUsage    = "usage"
	KeyDarkMode = "dark_mode"
)

var collectionKeys = []string{KeyItems, KeyMeals, KeyUsage, KeyDarkMode}

// Store is the persistence bridge contract.
type Store interface {
	// Load returns whatever subset of state is available. Missing or
	// unreadable collections come back as their defaults.
	Load(ctx context.Context) engine.State
	// Save persists the full state, best-effort.
	Save(ctx context.Context, state engine.State) error
	// Ping reports whether the medium is reachable.
	Ping(ctx context.Context) error
	Close() error
}

func encode(state engine.State) (map[string][]byte, error) {
	payloads := map[string]any{
		KeyItems:    state.Items,
		KeyMeals:    state.Meals,
		KeyUsage:    state.Usage,
		KeyDarkMode: state.DarkMode,
	}
	out := make(map[string][]byte, len(payloads))
	for key, value := range payloads {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return out, nil
}

// decodeInto unmarshals one collection payload into the right state field,
// returning an error the caller is expected to log and swallow.
func decodeInto(state *engine.State, key string, payload []byte) error {
	switch key {
	case KeyItems:
		return json.Unmarshal(payload, &state.Items)
	case KeyMeals:
		return json.Unmarshal(payload, &state.Meals)
	case KeyUsage:
		return json.Unmarshal(payload, &state.Usage)
	case KeyDarkMode:
		return json.Unmarshal(payload, &state.DarkMode)
	}
	return nil
}
