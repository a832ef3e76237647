// Package database wraps GORM with connection retries, pool settings, a
// zerolog-backed query logger and a lifecycle Component.
//
// The only driver wired in is SQLite (gorm.io/driver/sqlite). DSN ":memory:"
// gives a private in-memory database, which the tests use.
package database
