// Package version reports build information. Version, Commit and BuildTime
// are set with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/voicemention/version.Version=1.4.0" ./cmd/voicemention
package version
