package jws

import (
	"encoding/json"
	"fmt"

	"github.com/halimath/jwtguard/internal/encoding"
)

// Header defines the structure representing a JWS JOSE header as defined in RFC7515 section 4
// (https://datatracker.ietf.org/doc/html/rfc7515#section-4).
//
// Unknown members are preserved in Extra so that a header round-trips even
// when it carries fields this package does not interpret.
type Header struct {
	Algorithm SignatureAlgorithm `json:"-"`
	Type      string             `json:"-"`

	// KeyID is the "kid" (Key ID) Header Parameter. It is a hint indicating
	// which key was used to secure the JWS and, during verification, the
	// primary input to the kid-matching rule.
	// (https://datatracker.ietf.org/doc/html/rfc7515#section-4.1.4)
	KeyID string `json:"-"`

	// X5T is the "x5t" (X.509 Certificate SHA-1 Thumbprint) Header Parameter.
	X5T string `json:"-"`

	// X5TS256 is the "x5t#S256" (X.509 Certificate SHA-256 Thumbprint) Header Parameter.
	X5TS256 string `json:"-"`

	// JKU is the "jku" (JWK Set URL) Header Parameter. Informational only;
	// this package never dereferences it.
	JKU string `json:"-"`

	// X5U is the "x5u" (X.509 URL) Header Parameter. Informational only.
	X5U string `json:"-"`

	// Extra carries header members this package does not recognize, keyed by
	// their JSON member name, so they survive a decode/encode round-trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// headerWire is the JSON shape of Header. A plain struct (rather than custom
// Marshal/Unmarshal on Header directly) keeps the Extra-merging logic in one
// place without fighting Go's struct tag based encoding for the known fields.
type headerWire struct {
	Algorithm SignatureAlgorithm `json:"alg"`
	Type      string             `json:"typ,omitempty"`
	KeyID     string             `json:"kid,omitempty"`
	X5T       string             `json:"x5t,omitempty"`
	X5TS256   string             `json:"x5t#S256,omitempty"`
	JKU       string             `json:"jku,omitempty"`
	X5U       string             `json:"x5u,omitempty"`
}

var knownHeaderMembers = map[string]bool{
	"alg": true, "typ": true, "kid": true, "x5t": true,
	"x5t#S256": true, "jku": true, "x5u": true,
}

func (h Header) MarshalJSON() ([]byte, error) {
	raw := map[string]json.RawMessage{}

	for k, v := range h.Extra {
		raw[k] = v
	}

	w := headerWire{
		Algorithm: h.Algorithm,
		Type:      h.Type,
		KeyID:     h.KeyID,
		X5T:       h.X5T,
		X5TS256:   h.X5TS256,
		JKU:       h.JKU,
		X5U:       h.X5U,
	}

	wb, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}

	var known map[string]json.RawMessage
	if err := json.Unmarshal(wb, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		raw[k] = v
	}

	return json.Marshal(raw)
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var w headerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	h.Algorithm = w.Algorithm
	h.Type = w.Type
	h.KeyID = w.KeyID
	h.X5T = w.X5T
	h.X5TS256 = w.X5TS256
	h.JKU = w.JKU
	h.X5U = w.X5U

	for k, v := range raw {
		if !knownHeaderMembers[k] {
			if h.Extra == nil {
				h.Extra = map[string]json.RawMessage{}
			}
			h.Extra[k] = v
		}
	}

	return nil
}

// Encode canonicalizes h to JSON and returns the base64url encoding of that
// JSON. Members, known and Extra alike, are written in lexicographic key
// order, as encoding/json does for the map MarshalJSON builds. Used only when this
// package constructs a fresh header for a new token - a header decoded from
// the wire is never re-encoded (see ParseCompact).
func (h Header) Encode() string {
	b, err := json.Marshal(h)
	if err != nil {
		panic(err)
	}

	return encoding.Encode(b)
}

// DecodeHeader base64url-decodes and JSON-parses encoded into a Header.
func DecodeHeader(encoded string) (*Header, error) {
	b, err := encoding.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}

	var h Header
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}

	return &h, nil
}
