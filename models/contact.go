package models

import (
	"encoding/json"
	"strings"
)

type Channel string

const (
	ChannelFarcaster Channel = "farcaster"
	ChannelSMS       Channel = "sms"
	ChannelEmail     Channel = "email"
)

// Contact is an alert recipient. Older clients send fid/phone/email fields
// instead of type+value; both shapes are accepted.
type Contact struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name,omitempty"`
	Type  Channel `json:"type,omitempty"`
	Value string  `json:"value,omitempty"`

	FID   json.Number `json:"fid,omitempty"`
	Phone string      `json:"phone,omitempty"`
	Email string      `json:"email,omitempty"`
}

// Recipient is a contact resolved to a single channel address.
type Recipient struct {
	ContactID string  `json:"contact_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Channel   Channel `json:"channel"`
	Address   string  `json:"address"`
}

// Addresses lists every channel address the contact carries.
func (c Contact) Addresses() map[Channel]string {
	out := make(map[Channel]string, 1)
	if v := strings.TrimSpace(c.Value); v != "" {
		switch ch := Channel(strings.ToLower(string(c.Type))); ch {
		case ChannelFarcaster, ChannelSMS, ChannelEmail:
			out[ch] = v
		}
	}
	if v := strings.TrimSpace(c.FID.String()); v != "" {
		out[ChannelFarcaster] = v
	}
	if v := strings.TrimSpace(c.Phone); v != "" {
		out[ChannelSMS] = v
	}
	if v := strings.TrimSpace(c.Email); v != "" {
		out[ChannelEmail] = v
	}
	return out
}

// PartitionContacts groups recipients by channel. A contact carrying
// several addresses lands in each matching channel; contacts with none are
// dropped.
func PartitionContacts(contacts []Contact) map[Channel][]Recipient {
	out := make(map[Channel][]Recipient)
	for _, c := range contacts {
		for ch, addr := range c.Addresses() {
			out[ch] = append(out[ch], Recipient{
				ContactID: c.ID,
				Name:      c.Name,
				Channel:   ch,
				Address:   addr,
			})
		}
	}
	return out
}
