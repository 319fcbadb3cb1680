// Package account owns user records: identity, role, password hash and the
// subscription fields mirrored from the billing provider.
//
// The Store interface is the single persistence surface shared by the
// subscription reconciler, the access gate, authentication and the admin
// listing. PostgresStore is the production implementation; MemoryStore backs
// tests and local development.
//
// Service implements password registration and login, plus EnsureAdmin for
// seeding the administrator account.
package account
