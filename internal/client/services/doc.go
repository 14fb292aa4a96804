// Package services holds what the backend service packages share.
//
// Each subpackage (user, profile, job) exposes the typed request and
// response schemas of one backend, the raw calls, the query keys of its
// reads and the mutations of its writes.
package services
