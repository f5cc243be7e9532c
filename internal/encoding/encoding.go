// Package encoding defines functions to encode and decode binary data
// in base64url format with no padding as specified in RFC 7515 section 2
// (https://datatracker.ietf.org/doc/html/rfc7515#section-2)
package encoding

import "encoding/base64"

var enc = base64.URLEncoding.WithPadding(base64.NoPadding)

// Encode encodes the given data using base64url encoding with no padding.
func Encode(data []byte) string {
	return enc.EncodeToString(data)
}

// Decode decodes the given base64url encoded string. Padding is not
// required; input whose length is 1 modulo 4 cannot encode whole bytes and
// is rejected, as is any character outside the URL-safe alphabet (CR and LF
// are skipped).
func Decode(data string) ([]byte, error) {
	return enc.DecodeString(data)
}
