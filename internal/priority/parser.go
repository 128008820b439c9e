// Package priority normalizes manager-declared batting and positioning
// preferences. Saved preferences may arrive structured or as serialized JSON,
// and older configs use bare player ids where newer ones use {id, locked}
// objects. Every exported function here degrades to an empty result instead of
// returning an error.
package priority

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/logging"
)

// maxUnwrap bounds how many times a JSON string holding JSON is unwrapped.
const maxUnwrap = 2

var errShape = errors.New("unexpected shape")

// ParseIdealLineup returns the normalized ideal batting lineup. raw may be an
// IdealLineup, a pointer to one, a JSON string, bytes, or decoded generic JSON.
// A bare array is read as the primary list.
func ParseIdealLineup(raw any, logger *slog.Logger) lineup.IdealLineup {
	switch v := raw.(type) {
	case nil:
		return lineup.IdealLineup{}
	case lineup.IdealLineup:
		return cloneLineup(v)
	case *lineup.IdealLineup:
		if v == nil {
			return lineup.IdealLineup{}
		}
		return cloneLineup(*v)
	}

	data, ok := toJSON(raw, "idealLineup", logger)
	if !ok {
		return lineup.IdealLineup{}
	}
	parsed, err := decodeIdealLineup(data)
	if err != nil {
		logging.Warn(logger, "ignoring malformed ideal lineup", logging.FieldSetting, "idealLineup", logging.FieldError, err)
		return lineup.IdealLineup{}
	}
	return parsed
}

// ParseIdealPositioning returns the normalized position priority chains with
// every entry expressed as an explicit Unlocked or Locked variant.
func ParseIdealPositioning(raw any, logger *slog.Logger) lineup.IdealPositioning {
	switch v := raw.(type) {
	case nil:
		return lineup.IdealPositioning{}
	case lineup.IdealPositioning:
		return clonePositioning(v)
	}

	data, ok := toJSON(raw, "idealPositioning", logger)
	if !ok {
		return lineup.IdealPositioning{}
	}
	parsed, err := decodeIdealPositioning(data)
	if err != nil {
		logging.Warn(logger, "ignoring malformed ideal positioning", logging.FieldSetting, "idealPositioning", logging.FieldError, err)
		return lineup.IdealPositioning{}
	}
	return parsed
}

// toJSON turns any accepted input into raw JSON bytes, unwrapping serialized
// strings. ok is false for empty input or input that cannot be encoded.
func toJSON(raw any, setting string, logger *slog.Logger) ([]byte, bool) {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			logging.Warn(logger, "ignoring unencodable setting", logging.FieldSetting, setting, logging.FieldError, err)
			return nil, false
		}
		data = encoded
	}

	for i := 0; ; i++ {
		data = bytes.TrimSpace(data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return nil, false
		}
		if data[0] != '"' {
			return data, true
		}
		if i >= maxUnwrap {
			logging.Warn(logger, "ignoring over-serialized setting", logging.FieldSetting, setting)
			return nil, false
		}
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			logging.Warn(logger, "ignoring malformed setting", logging.FieldSetting, setting, logging.FieldError, err)
			return nil, false
		}
		data = []byte(inner)
	}
}

func decodeIdealLineup(data []byte) (lineup.IdealLineup, error) {
	if data[0] == '[' {
		ids, err := decodeIDs(data)
		if err != nil {
			return lineup.IdealLineup{}, fmt.Errorf("primary: %w", err)
		}
		return lineup.IdealLineup{Primary: ids}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return lineup.IdealLineup{}, err
	}
	var out lineup.IdealLineup
	var err error
	if rawPrimary, ok := fields["primary"]; ok {
		if out.Primary, err = decodeIDs(rawPrimary); err != nil {
			return lineup.IdealLineup{}, fmt.Errorf("primary: %w", err)
		}
	}
	if rawReserves, ok := fields["reserves"]; ok {
		if out.Reserves, err = decodeIDs(rawReserves); err != nil {
			return lineup.IdealLineup{}, fmt.Errorf("reserves: %w", err)
		}
	}
	return out, nil
}

func decodeIDs(data []byte) ([]string, error) {
	if isNull(data) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for i, item := range items {
		var id string
		if err := json.Unmarshal(item, &id); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, errShape)
		}
		if id = strings.TrimSpace(id); id == "" {
			return nil, fmt.Errorf("entry %d: empty id", i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeIdealPositioning(data []byte) (lineup.IdealPositioning, error) {
	var chains map[string]json.RawMessage
	if err := json.Unmarshal(data, &chains); err != nil {
		return nil, err
	}
	out := make(lineup.IdealPositioning, len(chains))
	for pos, rawChain := range chains {
		if strings.TrimSpace(pos) == "" {
			return nil, fmt.Errorf("empty position key: %w", errShape)
		}
		if isNull(rawChain) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(rawChain, &items); err != nil {
			return nil, fmt.Errorf("position %s: %w", pos, err)
		}
		entries := make([]lineup.PriorityEntry, 0, len(items))
		for i, item := range items {
			entry, err := decodeEntry(item)
			if err != nil {
				return nil, fmt.Errorf("position %s entry %d: %w", pos, i, err)
			}
			entries = append(entries, entry)
		}
		out[lineup.PositionCode(pos)] = entries
	}
	return out, nil
}

// entryObject covers the object shapes seen in saved configs.
type entryObject struct {
	ID       string           `json:"id"`
	PlayerID string           `json:"playerId"`
	Locked   bool             `json:"locked"`
	Kind     lineup.EntryKind `json:"kind"`
}

// decodeEntry accepts a bare id (legacy shorthand) or an entry object.
func decodeEntry(data []byte) (lineup.PriorityEntry, error) {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		if id = strings.TrimSpace(id); id == "" {
			return lineup.PriorityEntry{}, errors.New("empty id")
		}
		return lineup.Unlocked(id), nil
	}

	var obj entryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return lineup.PriorityEntry{}, errShape
	}
	id = strings.TrimSpace(obj.PlayerID)
	if id == "" {
		id = strings.TrimSpace(obj.ID)
	}
	if id == "" {
		return lineup.PriorityEntry{}, errors.New("entry without id")
	}
	if obj.Locked || obj.Kind == lineup.EntryLocked {
		return lineup.Locked(id), nil
	}
	return lineup.Unlocked(id), nil
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func cloneLineup(l lineup.IdealLineup) lineup.IdealLineup {
	return lineup.IdealLineup{
		Primary:  append([]string(nil), l.Primary...),
		Reserves: append([]string(nil), l.Reserves...),
	}
}

func clonePositioning(p lineup.IdealPositioning) lineup.IdealPositioning {
	out := make(lineup.IdealPositioning, len(p))
	for pos, entries := range p {
		normalized := make([]lineup.PriorityEntry, 0, len(entries))
		for _, e := range entries {
			if e.PlayerID == "" {
				continue
			}
			if e.Kind != lineup.EntryLocked {
				e.Kind = lineup.EntryUnlocked
			}
			normalized = append(normalized, e)
		}
		out[pos] = normalized
	}
	return out
}
