package failover

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Event types carried by the protocol.
const (
	TypeCueLive     = "cue_live"
	TypeStopAll     = "stop_all"
	TypeOverlayText = "overlay_text"
)

const protocolVersion = 1

// Envelope is the wire form of one replicated event.
type Envelope struct {
	Version      int            `json:"version"`
	EventID      string         `json:"eventId"`
	Source       string         `json:"source"`
	Type         string         `json:"type"`
	TimestampUTC string         `json:"timestampUtc"`
	Auth         string         `json:"auth"`
	Payload      map[string]any `json:"payload"`
}

// complete reports whether every field needed for verification is present.
func (e *Envelope) complete() bool {
	return e.EventID != "" && e.Source != "" && e.Type != "" && e.Auth != ""
}

// canonicalPayload renders payload as compact JSON with sorted keys. A nil
// payload is rendered as {}.
func canonicalPayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failover: encoding payload: %w", err)
	}
	return data, nil
}

// computeAuth returns the hex HMAC-SHA256 of eventID|type|payload.
func computeAuth(key []byte, eventID, eventType string, payload map[string]any) (string, error) {
	body, err := canonicalPayload(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(eventID))
	mac.Write([]byte("|"))
	mac.Write([]byte(eventType))
	mac.Write([]byte("|"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// verifyAuth compares e.Auth against the expected MAC in constant time.
func verifyAuth(key []byte, e *Envelope) bool {
	want, err := computeAuth(key, e.EventID, e.Type, e.Payload)
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(e.Auth)
	if err != nil {
		return false
	}
	expected, _ := hex.DecodeString(want)
	return hmac.Equal(got, expected)
}
