// Package server runs the Gin-based HTTP API over HTTP/1.1 and h2c.
//
// New wires the net/http middleware stack (server/middleware) around the
// engine; route groups add Auth and RateLimit on top. Probe and info
// endpoints live in server/endpoint.
package server
