package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	_ "github.com/merawaalameetha/meetha-backend/pkg/types"
)

// SchemaVersion is written into every persisted snapshot.
const SchemaVersion = 1

// ErrUnsupportedVersion marks a payload written by a newer schema than this build understands.
var ErrUnsupportedVersion = errors.New("unsupported cart schema version")

// Snapshot is the persisted and wire form of a cart.
type Snapshot struct {
	Version    int             `json:"version"`
	Items      []Item          `json:"items"`
	TotalItems decimal.Decimal `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// IsEmpty reports whether the snapshot holds no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// EncodeSnapshot serializes s, stamping the current schema version.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	s.Version = SchemaVersion
	if s.Items == nil {
		s.Items = []Item{}
	}
	return json.Marshal(s)
}

type snapshotEnvelope struct {
	Version    *int             `json:"version"`
	Items      []Item           `json:"items"`
	TotalItems decimal.Decimal  `json:"totalItems"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
	State      *json.RawMessage `json:"state"`
}

// DecodeSnapshot parses a persisted payload. Payloads without a version are read as
// version 1, as are legacy {"state":{...},"version":0} envelopes. Cached totals are
// returned as stored; Store recomputes them on rehydrate.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}

	if env.State != nil {
		var legacy struct {
			Items      []Item          `json:"items"`
			TotalItems decimal.Decimal `json:"totalItems"`
			TotalPrice decimal.Decimal `json:"totalPrice"`
		}
		if err := json.Unmarshal(*env.State, &legacy); err != nil {
			return Snapshot{}, fmt.Errorf("decode legacy cart state: %w", err)
		}
		return Snapshot{
			Version:    SchemaVersion,
			Items:      legacy.Items,
			TotalItems: legacy.TotalItems,
			TotalPrice: legacy.TotalPrice,
		}, nil
	}

	version := SchemaVersion
	if env.Version != nil {
		version = *env.Version
	}
	if version > SchemaVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return Snapshot{
		Version:    SchemaVersion,
		Items:      env.Items,
		TotalItems: env.TotalItems,
		TotalPrice: env.TotalPrice,
	}, nil
}
