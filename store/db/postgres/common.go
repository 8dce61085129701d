package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// placeholder returns a placeholder for PostgreSQL (uses $1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns count placeholders numbered from start.
func placeholders(start, count int) string {
	list := []string{}
	for i := 0; i < count; i++ {
		list = append(list, placeholder(start+i))
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
