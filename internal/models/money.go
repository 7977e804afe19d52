package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseMoney decodes a loosely typed JSON money value.
// Numbers and numeric strings are accepted; null, empty or anything non-numeric is zero.
func parseMoney(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// timeLayouts are tried in order when decoding timestamps
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime decodes a JSON timestamp that may be a full RFC 3339 value or a bare date.
// A null or empty value yields the zero time.
func parseTime(raw json.RawMessage) (time.Time, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp must be a string, got %s", s)
	}
	if unquoted == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, unquoted); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", unquoted)
}
