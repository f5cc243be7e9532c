// Package alg implements the Algorithm Map and the Provider Factory: the
// seam between the wire algorithm names carried in a JWS header and the
// internal algorithm identifiers used to resolve a SignatureProvider.
package alg

import (
	"errors"
	"sync"

	"github.com/halimath/jwtguard/jws"
)

// Algorithm URIs mirror the stable, implementation-defined identifiers the
// original source used internally (the XML-DSig "more" namespace), kept
// here only as map values - callers never need to know their exact shape.
const (
	InternalHmacSha256 = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha256"
	InternalHmacSha384 = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha384"
	InternalHmacSha512 = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha512"
	InternalRsaSha256  = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	InternalRsaSha384  = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha384"
	InternalRsaSha512  = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha512"
	InternalEcdsaSha256 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha256"
	InternalEcdsaSha384 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha384"
	InternalEcdsaSha512 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha512"
)

// ErrNilMap is returned when a caller attempts to replace an AlgorithmMap's
// inbound or outbound table with nil.
var ErrNilMap = errors.New("alg: map must not be nil")

// Map holds the bidirectional translation between wire algorithm names
// (e.g. "RS256") and internal algorithm identifiers. Lookups that miss fall
// through to the raw name, so an unmapped algorithm is passed through
// unchanged rather than rejected at this layer - the Provider Factory is
// where an unresolvable combination ultimately surfaces as unsupported.
//
// Map is safe for concurrent reads; writes (SetInboundMap/SetOutboundMap)
// are expected to happen during startup, per the process-wide configuration
// snapshot discipline described for this package's callers.
type Map struct {
	mu       sync.RWMutex
	inbound  map[string]string // wire -> internal
	outbound map[string]string // internal -> wire
}

// Default returns a new Map seeded with the default translations for the
// HMAC, RSA, and ECDSA SHA-2 families.
func Default() *Map {
	return &Map{
		inbound: map[string]string{
			string(jws.ALG_HS256):  InternalHmacSha256,
			string(jws.ALG_HS384):  InternalHmacSha384,
			string(jws.ALG_HS512):  InternalHmacSha512,
			string(jws.ALG_RS256):  InternalRsaSha256,
			string(jws.ALG_RS384):  InternalRsaSha384,
			string(jws.ALG_RS512):  InternalRsaSha512,
			string(jws.ALG_ES256):  InternalEcdsaSha256,
			string(jws.ALG_ES384):  InternalEcdsaSha384,
			string(jws.ALG_ES512):  InternalEcdsaSha512,
		},
		outbound: map[string]string{
			InternalHmacSha256:  string(jws.ALG_HS256),
			InternalHmacSha384:  string(jws.ALG_HS384),
			InternalHmacSha512:  string(jws.ALG_HS512),
			InternalRsaSha256:   string(jws.ALG_RS256),
			InternalRsaSha384:   string(jws.ALG_RS384),
			InternalRsaSha512:   string(jws.ALG_RS512),
			InternalEcdsaSha256: string(jws.ALG_ES256),
			InternalEcdsaSha384: string(jws.ALG_ES384),
			InternalEcdsaSha512: string(jws.ALG_ES512),
		},
	}
}

// Inbound translates a wire algorithm name into its internal identifier.
// A miss falls through to wireName unchanged.
func (m *Map) Inbound(wireName string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if internal, ok := m.inbound[wireName]; ok {
		return internal
	}
	return wireName
}

// Outbound translates an internal algorithm identifier into its wire name.
// A miss falls through to internalName unchanged.
func (m *Map) Outbound(internalName string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if wire, ok := m.outbound[internalName]; ok {
		return wire
	}
	return internalName
}

// SetInboundMap replaces the entire inbound (wire -> internal) table.
func (m *Map) SetInboundMap(table map[string]string) error {
	if table == nil {
		return ErrNilMap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound = table
	return nil
}

// SetOutboundMap replaces the entire outbound (internal -> wire) table.
//
// The source this package is grounded on has a setter that mistakenly
// assigns its argument to the *inbound* table. This implementation assigns
// to the outbound table, as the name promises - do not reproduce that bug.
func (m *Map) SetOutboundMap(table map[string]string) error {
	if table == nil {
		return ErrNilMap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbound = table
	return nil
}

// AddInbound registers a single wire -> internal translation without
// touching the rest of the table.
func (m *Map) AddInbound(wireName, internalName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound[wireName] = internalName
}

// AddOutbound registers a single internal -> wire translation without
// touching the rest of the table.
func (m *Map) AddOutbound(internalName, wireName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbound[internalName] = wireName
}

// internalIDs fixes the crypto-algorithm -> family-identifier association
// the Token Builder and Provider Factory agree on regardless of how a Map
// has been customized. It is not itself configurable: customizing what wire
// name a family is written/read as goes through the Map above, not this
// table.
var internalIDs = map[jws.SignatureAlgorithm]string{
	jws.ALG_HS256: InternalHmacSha256,
	jws.ALG_HS384: InternalHmacSha384,
	jws.ALG_HS512: InternalHmacSha512,
	jws.ALG_RS256: InternalRsaSha256,
	jws.ALG_RS384: InternalRsaSha384,
	jws.ALG_RS512: InternalRsaSha512,
	jws.ALG_ES256: InternalEcdsaSha256,
	jws.ALG_ES384: InternalEcdsaSha384,
	jws.ALG_ES512: InternalEcdsaSha512,
}

var wireForInternalID = map[string]jws.SignatureAlgorithm{
	InternalHmacSha256:  jws.ALG_HS256,
	InternalHmacSha384:  jws.ALG_HS384,
	InternalHmacSha512:  jws.ALG_HS512,
	InternalRsaSha256:   jws.ALG_RS256,
	InternalRsaSha384:   jws.ALG_RS384,
	InternalRsaSha512:   jws.ALG_RS512,
	InternalEcdsaSha256: jws.ALG_ES256,
	InternalEcdsaSha384: jws.ALG_ES384,
	InternalEcdsaSha512: jws.ALG_ES512,
}

// InternalIDFor returns wireAlg's fixed internal family identifier (the
// value the Outbound/Inbound tables key on), or wireAlg unchanged if it
// names no known family. The Token Builder calls this before consulting the
// (possibly remapped) outbound table, so the wire name ultimately written to
// the header always starts from the same family identity a given crypto
// algorithm maps to.
func InternalIDFor(wireAlg jws.SignatureAlgorithm) string {
	if id, ok := internalIDs[wireAlg]; ok {
		return id
	}
	return string(wireAlg)
}

// cryptoAlg normalizes alg - which may already be a literal wire constant
// (as the Token Builder passes directly to the Provider Factory when
// signing) or a family identifier (as the Validator passes after
// translating the header's wire "alg" through the inbound table) - to the
// wire constant the jws package's signer/verifier constructors switch on.
func cryptoAlg(alg jws.SignatureAlgorithm) jws.SignatureAlgorithm {
	if wire, ok := wireForInternalID[string(alg)]; ok {
		return wire
	}
	return alg
}
