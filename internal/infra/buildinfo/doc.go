// Package buildinfo exposes build-time version information.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/hireflow-go/internal/infra/buildinfo.Version=v1.0.0"
//
// The version is shown by --version and sent in the User-Agent header.
package buildinfo
