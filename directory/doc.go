// Package directory stores who is in which chat and how much each user has
// transcribed. It backs the name matcher's roster and the stats endpoint.
package directory
