package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Location is either a free-form address or a coordinate pair. Clients may
// send a bare JSON string; it is kept as the address.
type Location struct {
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	State     string   `json:"state,omitempty"`
	City      string   `json:"city,omitempty"`
}

type locationFields Location

func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = Location{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Location{Address: s}
		return nil
	}
	var f locationFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*l = Location(f)
	return nil
}

func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// IsZero reports whether the location carries neither an address nor a
// full coordinate pair.
func (l Location) IsZero() bool {
	return l.Address == "" && !l.HasCoordinates()
}

// String renders "lat, lng" when coordinates are known, the address otherwise.
func (l Location) String() string {
	if l.HasCoordinates() {
		return formatCoord(*l.Latitude) + ", " + formatCoord(*l.Longitude)
	}
	return l.Address
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
