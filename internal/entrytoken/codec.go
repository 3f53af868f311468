// Package entrytoken issues and verifies the short-lived, single-use
// credentials members present at the front desk.
package entrytoken

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// PayloadKind is the only kind accepted by Decode.
const PayloadKind = "entry"

// ErrInvalidPayload is returned by Decode for any structurally unusable payload.
var ErrInvalidPayload = errors.New("invalid entry token payload")

var encoding = base64.RawURLEncoding

// Payload is the signed body of an entry token.
type Payload struct {
	Kind          string `json:"kind"`
	SubjectID     string `json:"subjectId"`
	Nonce         string `json:"nonce"`
	ExpiresAtUnix int64  `json:"expiresAtUnix"`
}

// wirePayload uses pointers so absent fields can be told apart from zero values.
type wirePayload struct {
	Kind          *string `json:"kind"`
	SubjectID     *string `json:"subjectId"`
	Nonce         *string `json:"nonce"`
	ExpiresAtUnix *int64  `json:"expiresAtUnix"`
}

// Encode renders the payload as unpadded base64url JSON.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return encoding.EncodeToString(raw), nil
}

// Decode parses and validates an encoded payload. Empty subject ids and
// nonces are rejected along with missing or mistyped fields.
func Decode(encoded string) (Payload, error) {
	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, ErrInvalidPayload
	}

	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Payload{}, ErrInvalidPayload
	}

	switch {
	case wire.Kind == nil || *wire.Kind != PayloadKind:
		return Payload{}, ErrInvalidPayload
	case wire.SubjectID == nil || *wire.SubjectID == "":
		return Payload{}, ErrInvalidPayload
	case wire.Nonce == nil || *wire.Nonce == "":
		return Payload{}, ErrInvalidPayload
	case wire.ExpiresAtUnix == nil:
		return Payload{}, ErrInvalidPayload
	}

	return Payload{
		Kind:          *wire.Kind,
		SubjectID:     *wire.SubjectID,
		Nonce:         *wire.Nonce,
		ExpiresAtUnix: *wire.ExpiresAtUnix,
	}, nil
}
