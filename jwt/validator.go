package jwt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/halimath/jwtguard/jws"
	"github.com/halimath/jwtguard/jwtcore/alg"
	"github.com/halimath/jwtguard/jwtcore/key"
	"github.com/halimath/jwtguard/jwterr"
)

// effectiveLogger returns l, or a discarding Logger if l is the zero value -
// callers of ValidationParameters are not required to set Logger.
func effectiveLogger(l logr.Logger) logr.Logger {
	if l.GetSink() == nil {
		return logr.Discard()
	}
	return l
}

// Validate runs the full nine-step acceptance pipeline against raw under
// params, returning the parsed token and the principal built from its
// claims once every step has passed. Step order is itself part of the
// contract: a malformed token is rejected before a key is ever resolved, a
// tampered signature is rejected before lifetime/audience/issuer are
// considered, and so on - callers must not rely on steps reordering to
// short-circuit differently.
func Validate(ctx context.Context, raw string, params ValidationParameters) (*Jwt, *Principal, error) {
	// 1: pre-checks
	if strings.TrimSpace(raw) == "" {
		return nil, nil, jwterr.New(jwterr.ArgumentMissing, "raw token is null or whitespace")
	}
	maxBytes := params.MaxTokenSizeBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxTokenSizeBytes
	}
	if len(raw)*2 > maxBytes {
		return nil, nil, jwterr.New(jwterr.TokenTooLarge, "token exceeds maximum size")
	}
	if !CanRead(raw, maxBytes) {
		return nil, nil, jwterr.New(jwterr.MalformedToken, "not a compact JWT")
	}

	// 2: parse
	t, err := ReadToken(raw)
	if err != nil {
		return nil, nil, err
	}

	// 3: signature verification
	if err := verifySignature(ctx, t, &params); err != nil {
		return nil, nil, err
	}

	// 4: lifetime
	if params.ValidateLifetime {
		if err := checkLifetime(t, &params); err != nil {
			return nil, nil, err
		}
	}

	// 5: audience
	if params.ValidateAudience {
		if err := checkAudience(t, &params); err != nil {
			return nil, nil, err
		}
	}

	// 6: issuer
	validatedIssuer, err := checkIssuer(t, &params)
	if err != nil {
		return nil, nil, err
	}

	// 7: actor
	if params.ValidateActor {
		if err := checkActor(ctx, t, &params, 0); err != nil {
			return nil, nil, err
		}
	}

	// 8: signing-key policy
	if params.ValidateSigningKey && params.CertificateValidator != nil {
		if xk, ok := t.signingKey.(*key.X509Key); ok {
			if err := params.CertificateValidator.ValidateCertificate(xk.Certificate); err != nil {
				return nil, nil, jwterr.Wrap(jwterr.InvalidSigningKey, err, "certificate validation failed")
			}
		}
	}

	// 9: build principal
	p := BuildPrincipal(t, &params, validatedIssuer)

	return t, p, nil
}

func verifySignature(ctx context.Context, t *Jwt, params *ValidationParameters) error {
	log := effectiveLogger(params.Logger)
	header := t.Header()

	if len(t.Signature()) == 0 {
		if header.Algorithm == jws.ALG_NONE {
			if params.RequireSignedTokens {
				return jwterr.New(jwterr.SignatureRequired, "unsigned tokens are not accepted")
			}
			return nil
		}
		return jwterr.New(jwterr.MalformedToken, "missing signature for a non-none algorithm")
	}

	candidates, err := resolveCandidates(ctx, t.Raw(), params)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return jwterr.New(jwterr.InvalidSignature, "no candidate signing keys configured")
	}

	hints := key.Hints{KeyID: header.KeyID, X5T: header.X5T, X5TS256: header.X5TS256}
	matched, unmatched := candidates.Partition(hints)

	factory := params.Factory
	if factory == nil {
		factory = alg.NewFactory()
	}

	algMap := params.AlgorithmMap
	if algMap == nil {
		algMap = alg.Default()
	}

	// The header's wire "alg" is translated through the inbound algorithm
	// map before it ever reaches the Provider Factory - a wire name the map
	// doesn't recognize falls through unchanged and, absent a matching
	// crypto primitive, simply fails to resolve a provider below.
	internalAlg := jws.SignatureAlgorithm(algMap.Inbound(string(header.Algorithm)))
	// The resolved verifier checks the algorithm it is handed against its own
	// jws constant, so the family identifier is turned back into that
	// constant through the default outbound table (an identifier the table
	// does not know, e.g. an already-plain "HS256", passes through as is).
	verifyAlg := jws.SignatureAlgorithm(alg.Default().Outbound(string(internalAlg)))
	signingInput := t.jws.SigningInput()
	signature := t.Signature()

	// Matched keys are tried first. If at least one matched but none
	// verified, the failure is SigningKeyNotFound (the header pointed at a
	// specific key that didn't work - a rollover signal) rather than
	// InvalidSignature. Each failed candidate adds one line to the returned
	// error's diagnostic; the first verification error becomes its cause.
	anyMatched := len(matched) > 0
	tried := 0
	var diag []string
	var firstCause error
	for _, k := range append(matched, unmatched...) {
		p, ok := factory.Resolve(k, internalAlg, alg.IntentVerify)
		if !ok {
			log.V(1).Info("no verify provider for candidate key", "keyID", k.ID(), "alg", string(internalAlg))
			diag = append(diag, fmt.Sprintf("key %q: %s: no verify provider for %q", k.ID(), jwterr.UnsupportedAlgorithm, internalAlg))
			continue
		}
		tried++
		err := p.Verifier().Verify(verifyAlg, signingInput, signature)
		factory.Release(p)
		if err == nil {
			t.signingKey = k
			return nil
		}
		log.V(1).Info("candidate key failed to verify signature", "keyID", k.ID())
		diag = append(diag, fmt.Sprintf("key %q: %v", k.ID(), err))
		if firstCause == nil {
			firstCause = err
		}
	}
	log.V(1).Info("exhausted candidate signing keys", "tried", tried, "matched", len(matched))

	detail := strings.Join(diag, "; ")
	if anyMatched {
		return jwterr.Wrap(jwterr.SigningKeyNotFound, firstCause, "a matched key failed to verify the signature: "+detail)
	}
	return jwterr.Wrap(jwterr.InvalidSignature, firstCause, "no configured key produced a valid signature: "+detail)
}

func resolveCandidates(ctx context.Context, raw string, params *ValidationParameters) (key.Set, error) {
	switch {
	case params.SigningKeyRetriever != nil:
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return params.SigningKeyRetriever(raw)
	case len(params.SigningKeys) > 0:
		return params.SigningKeys, nil
	case params.SigningKey != nil:
		return key.Set{params.SigningKey}, nil
	default:
		return nil, nil
	}
}

func checkLifetime(t *Jwt, params *ValidationParameters) error {
	now := time.Now()
	skew := time.Duration(params.ClockSkew) * time.Second

	exp, hasExp := t.Expiration()
	if !hasExp {
		if params.RequireExpirationTime {
			return jwterr.New(jwterr.NoExpiration, "token carries no \"exp\" claim")
		}
	} else if now.After(exp.Add(skew)) {
		return jwterr.New(jwterr.Expired, "token has expired")
	}

	if nbf, ok := t.NotBefore(); ok {
		if now.Before(nbf.Add(-skew)) {
			return jwterr.New(jwterr.NotYetValid, "token is not yet valid")
		}
	}

	return nil
}

// checkAudience is only invoked when params.ValidateAudience is true; an
// empty ValidAudiences with no AudienceValidator is a misconfiguration, not
// "accept any audience" - it fails closed, matching the named original's
// behavior of refusing to validate against an empty accepted set.
func checkAudience(t *Jwt, params *ValidationParameters) error {
	aud := t.Audience()

	if params.AudienceValidator != nil {
		if err := params.AudienceValidator(aud); err != nil {
			return jwterr.Wrap(jwterr.InvalidAudience, err, "audience validator rejected the token")
		}
		return nil
	}

	if len(params.ValidAudiences) == 0 {
		return jwterr.New(jwterr.InvalidAudience, "audience validation requested but no valid audiences are configured")
	}

	for _, want := range params.ValidAudiences {
		for _, got := range aud {
			if want == got {
				return nil
			}
		}
	}
	return jwterr.New(jwterr.InvalidAudience, fmt.Sprintf("none of %v match the accepted audiences", aud))
}

// checkIssuer runs unconditionally (step 6 carries no params.validate_issuer
// gate): "iss" must be present and appear in ValidIssuers. An empty
// ValidIssuers with no IssuerValidator fails closed rather than silently
// accepting any issuer - callers that genuinely don't care about "iss" must
// say so explicitly via IssuerValidator, not by leaving ValidIssuers unset.
// Returns the validated issuer string for use by BuildPrincipal.
func checkIssuer(t *Jwt, params *ValidationParameters) (string, error) {
	iss := t.Issuer()

	if params.IssuerValidator != nil {
		if err := params.IssuerValidator(iss); err != nil {
			return "", jwterr.Wrap(jwterr.InvalidIssuer, err, "issuer validator rejected the token")
		}
		return iss, nil
	}

	if len(params.ValidIssuers) == 0 {
		return "", jwterr.New(jwterr.InvalidIssuer, "issuer validation requested but no valid issuers are configured")
	}

	if iss == "" {
		return "", jwterr.New(jwterr.InvalidIssuer, "token carries no \"iss\" claim")
	}

	for _, want := range params.ValidIssuers {
		if want == iss {
			return iss, nil
		}
	}
	return "", jwterr.New(jwterr.InvalidIssuer, fmt.Sprintf("issuer %q is not accepted", iss))
}

func checkActor(ctx context.Context, t *Jwt, params *ValidationParameters, depth int) error {
	actort := t.Actor()
	if actort == "" {
		return nil
	}

	maxDepth := params.MaxActorDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}
	if depth >= maxDepth {
		return jwterr.New(jwterr.ActorDepthExceeded, "actor delegation chain is too deep")
	}

	actorParams := *params
	actorParams.ValidateActor = false // recursion below handles the next level explicitly

	actorToken, _, err := Validate(ctx, actort, actorParams)
	if err != nil {
		return jwterr.Wrap(jwterr.InvalidActor, err, "delegated actor token failed validation")
	}

	return checkActor(ctx, actorToken, params, depth+1)
}
