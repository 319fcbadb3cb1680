// Package jwt issues and verifies HS256 access tokens with
// github.com/golang-jwt/jwt/v5 and provides HTTP middleware that puts the
// verified claims into the request context.
//
// Tokens carry identity only (subject = user id). Roles and subscription
// state are always read from the user record on each request.
package jwt
