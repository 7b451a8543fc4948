package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
)

//go:embed snapshot.schema.json
var snapshotSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(snapshotSchema)

// EncodeSnapshot serializes a snapshot for storage.
func EncodeSnapshot(snap *engine.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return raw, nil
}

// DecodeSnapshot checks raw against the snapshot schema and the engine's own invariants.
// Any failure wraps ErrCorruptSnapshot.
func DecodeSnapshot(raw []byte) (*engine.Snapshot, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			msgs = append(msgs, field+": "+desc.Description())
		}
		return nil, fmt.Errorf("%w: %s", ErrCorruptSnapshot, strings.Join(msgs, "; "))
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &snap, nil
}
