// Package requestid tags every HTTP request with a correlation identifier.
//
// A well-formed X-Request-ID sent by the client (or an upstream proxy) is
// reused; anything else is replaced with a fresh UUID. The identifier is
// echoed in the response header, stored in the request context and picked up
// by pkg/logger through LoggerExtractor.
package requestid
