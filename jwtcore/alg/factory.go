package alg

import (
	"github.com/halimath/jwtguard/jws"
	"github.com/halimath/jwtguard/jwtcore/key"
)

// Intent names whether a Provider is requested to sign or to verify.
type Intent int

const (
	IntentSign Intent = iota
	IntentVerify
)

// Provider is a borrowed SignatureProvider: either a jws.Signer (IntentSign)
// or a jws.Verifier (IntentVerify), bound to one specific key and algorithm.
type Provider struct {
	signer   jws.Signer
	verifier jws.Verifier
}

// Signer returns the underlying signer, or nil if this Provider was
// resolved for IntentVerify.
func (p *Provider) Signer() jws.Signer { return p.signer }

// Verifier returns the underlying verifier, or nil if this Provider was
// resolved for IntentSign.
func (p *Provider) Verifier() jws.Verifier { return p.verifier }

// Factory resolves a (SecurityKey, algorithm, Intent) triple to a Provider.
// None of the concrete jws signers/verifiers hold state worth pooling, so
// Release is a no-op here; it exists so callers honor the borrow/release
// discipline regardless of which Factory implementation backs them, and so
// a future Factory backed by a hardware module has somewhere to put
// teardown logic without changing call sites.
type Factory struct{}

// NewFactory returns the default Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Resolve returns a Provider for k under wireAlg (e.g. "RS256"), or ok=false
// if the combination is unsupported. The caller treats a false return as
// UnsupportedAlgorithm.
func (f *Factory) Resolve(k key.SecurityKey, wireAlg jws.SignatureAlgorithm, intent Intent) (p *Provider, ok bool) {
	switch intent {
	case IntentSign:
		s, ok := f.signerFor(k, wireAlg)
		if !ok {
			return nil, false
		}
		return &Provider{signer: s}, true
	case IntentVerify:
		v, ok := f.verifierFor(k, wireAlg)
		if !ok {
			return nil, false
		}
		return &Provider{verifier: v}, true
	default:
		return nil, false
	}
}

// Release returns p to the factory. See the Factory doc comment for why
// this is currently a no-op.
func (f *Factory) Release(p *Provider) {}

func (f *Factory) signerFor(k key.SecurityKey, rawAlg jws.SignatureAlgorithm) (jws.Signer, bool) {
	wireAlg := cryptoAlg(rawAlg)
	switch sk := k.(type) {
	case *key.SymmetricKey:
		sv, err := jws.HSSignerVerifier(wireAlg, sk.Bytes())
		if err != nil {
			return nil, false
		}
		return sv, true

	case *key.RsaKey:
		if sk.PrivateKey == nil {
			return nil, false
		}
		switch wireAlg {
		case jws.ALG_RS256:
			return jws.RS256Signer(sk.PrivateKey), true
		case jws.ALG_RS384:
			return jws.RS384Signer(sk.PrivateKey), true
		case jws.ALG_RS512:
			return jws.RS512Signer(sk.PrivateKey), true
		}
		return nil, false

	case *key.EcdsaKey:
		if sk.PrivateKey == nil {
			return nil, false
		}
		return ecdsaSignerFor(wireAlg, sk.PrivateKey)

	default:
		return nil, false
	}
}

func (f *Factory) verifierFor(k key.SecurityKey, rawAlg jws.SignatureAlgorithm) (jws.Verifier, bool) {
	wireAlg := cryptoAlg(rawAlg)
	switch vk := k.(type) {
	case *key.SymmetricKey:
		sv, err := jws.HSSignerVerifier(wireAlg, vk.Bytes())
		if err != nil {
			return nil, false
		}
		return sv, true

	case *key.RsaKey:
		v, err := jws.RSVerifier(wireAlg, vk.PublicKey)
		if err != nil {
			return nil, false
		}
		return v, true

	case *key.EcdsaKey:
		return ecdsaVerifierFor(wireAlg, vk.PublicKey)

	case *key.X509Key:
		return verifierForCertificate(wireAlg, vk)

	default:
		return nil, false
	}
}
