package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonMap adapts map[string]any to the jsonb columns on trend_analysis,
// signal_events, and query_logs, following the repository's existing
// json.Marshal-before-Exec convention rather than a generic codec.
type jsonMap map[string]any

func (m jsonMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(map[string]any(m))
}

func (m *jsonMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("jsonMap: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, (*map[string]any)(m))
}
