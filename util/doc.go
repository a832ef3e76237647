// Package util holds small helpers shared by config and the HTTP layer.
package util
