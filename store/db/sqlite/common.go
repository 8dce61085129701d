package sqlite

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// placeholder returns a placeholder for SQLite (uses ?).
func placeholder(int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// marshalIDList encodes an ordered id list for storage.
func marshalIDList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	buf, err := json.Marshal(ids)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal id list")
	}
	return string(buf), nil
}

// unmarshalIDList decodes a stored id list. Empty text decodes to an empty list.
func unmarshalIDList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	ids := []string{}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal id list")
	}
	return ids, nil
}
