// Package environment names the deployment environments the service knows
// about and carries the active one through request contexts.
//
// Production gates anything that must never be reachable from a public
// deployment, such as the manual subscription activation endpoint.
package environment
