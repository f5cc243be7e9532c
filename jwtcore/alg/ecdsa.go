package alg

import (
	"crypto/ecdsa"
	"crypto/rsa"

	"github.com/halimath/jwtguard/jws"
	"github.com/halimath/jwtguard/jwtcore/key"
)

func ecdsaSignerFor(wireAlg jws.SignatureAlgorithm, priv *ecdsa.PrivateKey) (jws.Signer, bool) {
	s, err := jws.ESSigner(wireAlg, priv)
	if err != nil {
		return nil, false
	}
	return s, true
}

func ecdsaVerifierFor(wireAlg jws.SignatureAlgorithm, pub *ecdsa.PublicKey) (jws.Verifier, bool) {
	v, err := jws.ESVerifier(wireAlg, pub)
	if err != nil {
		return nil, false
	}
	return v, true
}

// verifierForCertificate resolves a verifier from an X.509-backed key by
// inspecting the certificate's public key type and dispatching to the RSA
// or ECDSA verifier family accordingly.
func verifierForCertificate(wireAlg jws.SignatureAlgorithm, xk *key.X509Key) (jws.Verifier, bool) {
	switch pub := xk.PublicKey().(type) {
	case *rsa.PublicKey:
		v, err := jws.RSVerifier(wireAlg, pub)
		if err != nil {
			return nil, false
		}
		return v, true
	case *ecdsa.PublicKey:
		return ecdsaVerifierFor(wireAlg, pub)
	default:
		return nil, false
	}
}
