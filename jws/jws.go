// Package jws contains implementations of the JSON Web Signatures (jws) defined
// in RFC 7515 (https://datatracker.ietf.org/doc/html/rfc7515) as well as parts
// from JSON Web Algorithms (jwa) as defined in RFC 7518
// (https://www.rfc-editor.org/rfc/rfc7518.html)
package jws

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/halimath/jwtguard/internal/encoding"
)

var (
	// ErrInvalidCompactJWS is returned when a given string is not a valid JWS in compact serialized form.
	ErrInvalidCompactJWS = errors.New("invalid compact JWS")

	ErrInvalidHeader = errors.New("invalid header")

	// ErrInvalidSignature is returned from VerifySignature when the signature is not considered valid.
	ErrInvalidSignature = errors.New("invalid signature")
)

// JWS implements a JSON Web Signature datastructure. The fields
// of this struct represent the different components of a JWS in
// multiple ways. Once created a JWS is immutable. A JWS may only
// be created through functions exposed from this package, i.e.
//
//	func Sign(signer Signer, payload []byte, header Header) (*JWS, error)
//	func ParseCompact(compact string) (*JWS, error)
type JWS struct {
	header           Header
	headerEncoded    string
	payload          []byte
	payloadEncoded   string
	signature        []byte
	signatureEncoded string
}

// Header returns a copy of j's header.
func (j *JWS) Header() Header {
	return j.header
}

// Payload returns a deep copy of j's payload.
func (j *JWS) Payload() []byte {
	b := make([]byte, len(j.payload))
	copy(b, j.payload)
	return b
}

// Signature returns a deep copy of j's signature bytes.
func (j *JWS) Signature() []byte {
	b := make([]byte, len(j.signature))
	copy(b, j.signature)
	return b
}

// SigningInput returns the exact ASCII byte sequence over which the
// signature was (or must be) computed: headerEncoded + "." + payloadEncoded.
// It is always derived from the segments exactly as received or produced -
// never from a re-serialization of the parsed header or payload.
func (j *JWS) SigningInput() []byte {
	return []byte(j.headerEncoded + "." + j.payloadEncoded)
}

// Compact returns the JWS in compact serialization as specified in
// RFC 7515 section 7.1
// (https://datatracker.ietf.org/doc/html/rfc7515#section-7.1)
func (j *JWS) Compact() string {
	return j.headerEncoded + "." + j.payloadEncoded + "." + j.signatureEncoded
}

// VerifySignature verifies that j's signature is valid for its signing input
// under verifier.
func (j *JWS) VerifySignature(verifier Verifier) error {
	if err := verifier.Verify(j.header.Algorithm, j.SigningInput(), j.signature); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return nil
}

// Sign signs the given payload and header with the given signer. It returns
// a JWS value containing the raw and encoded parts as well as the signature.
// header.Algorithm is always overwritten with signer.Alg().
func Sign(signer Signer, payload []byte, header Header) (*JWS, error) {
	header.Algorithm = signer.Alg()
	headerEncoded := header.Encode()
	payloadEncoded := encoding.Encode(payload)

	signature, err := signer.Sign([]byte(headerEncoded + "." + payloadEncoded))
	if err != nil {
		return nil, err
	}

	return &JWS{
		header:           header,
		headerEncoded:    headerEncoded,
		payload:          payload,
		payloadEncoded:   payloadEncoded,
		signature:        signature,
		signatureEncoded: encoding.Encode(signature),
	}, nil
}

// ParseCompact parses the given compact representation into a JWS datastructure and returns it.
// It performs only a syntactic validation of the base64url encoded segments as well as parsing
// the JOSE header JSON. The signature is NOT verified; use VerifySignature for that.
//
// A signature segment that is non-empty in the wire string but decodes to
// zero bytes is rejected with ErrInvalidCompactJWS rather than silently
// treated as an unsigned token - callers must distinguish "unsigned" (empty
// segment) from "malformed" (garbage segment).
func ParseCompact(compact string) (*JWS, error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: invalid number of encoded parts", ErrInvalidCompactJWS)
	}

	header, err := DecodeHeader(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	payload, err := encoding.Decode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	signature, err := encoding.Decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	if len(parts[2]) > 0 && len(signature) == 0 {
		return nil, fmt.Errorf("%w: signature segment decodes to zero bytes", ErrInvalidCompactJWS)
	}

	return &JWS{
		header:           *header,
		headerEncoded:    parts[0],
		payload:          payload,
		payloadEncoded:   parts[1],
		signature:        signature,
		signatureEncoded: parts[2],
	}, nil
}

// SignatureAlgorithm defines the type used to name algorithms creating
// digital signature including MACs.
type SignatureAlgorithm string

// Signer defines the interface for types implementing
// a given signature method for signing byte slices.
type Signer interface {
	// Alg returns the name of the signature algorithm as defined in
	// RFC 7518 section 3.1
	// (https://www.rfc-editor.org/rfc/rfc7518.html#section-3.1)
	Alg() SignatureAlgorithm

	// Sign calculates the signature or MAC for the given
	// byte slice and returns the signature bytes.
	Sign(data []byte) ([]byte, error)
}

// Verifier defines the interface for types verifying signatures.
type Verifier interface {
	// Verify is called to verify the given signature for the given data.
	// Implementations return nil in case of a valid signature or a non-nil error.
	// Implementations MUST NOT modify neither data nor signature.
	Verify(alg SignatureAlgorithm, data []byte, signature []byte) error
}

// SignerVerifier is the combination of both Signer and
// Verifier. It is used for symmetric signatures (i.e. MACs).
type SignerVerifier interface {
	Signer
	Verifier
}

type symmetricSignature struct {
	Signer
}

func (s *symmetricSignature) Verify(alg SignatureAlgorithm, data []byte, signature []byte) error {
	if alg != s.Alg() {
		return ErrInvalidSignature
	}

	sig, err := s.Sign(data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	if !bytes.Equal(sig, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// SymmetricSignature creates a SignerVerifier from a Signer whose Sign method
// is deterministic, by verifying through re-computation and comparison.
func SymmetricSignature(s Signer) SignerVerifier {
	return &symmetricSignature{
		Signer: s,
	}
}

// --

const (
	ALG_NONE SignatureAlgorithm = "none"
)

// None returns a signature method that creates no signature.
// Use this method to create unsecured JWTs as specified in
// RFC7519 section 6 (https://datatracker.ietf.org/doc/html/rfc7519#section-6)
func None() SignerVerifier {
	return SymmetricSignature(&noneSignatureMethod{})
}

type noneSignatureMethod struct{}

func (m *noneSignatureMethod) Alg() SignatureAlgorithm {
	return ALG_NONE
}

func (m *noneSignatureMethod) Sign(data []byte) ([]byte, error) {
	return []byte{}, nil
}
