package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a backend identifier. Some resources use numeric ids and others use
// strings, so both decode into the same type.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Thousands is an amount written in thousands of VND. The backend sends it as
// a number (500) or a short string ("15k").
type Thousands float64

func (t *Thousands) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "k")
		if s == "" {
			*t = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*t = 0
			return nil
		}
		*t = Thousands(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*t = Thousands(f)
	return nil
}

// VND converts to dong using unit dong per thousand.
func (t Thousands) VND(unit int64) int64 {
	return int64(float64(t) * float64(unit))
}
