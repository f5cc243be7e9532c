// Package jwt contains types and functions to create, sign, verify and parse
// JSON Web Tokens (JWT) as defined in RFC7519
// (https://datatracker.ietf.org/doc/html/rfc7519), together with the
// Validator, Token Builder, and Claims-Identity Adapter built on top of it.
package jwt
