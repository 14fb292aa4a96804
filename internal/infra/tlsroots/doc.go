// Package tlsroots builds the TLS settings used to reach the backend
// services: the system roots plus an optional private CA bundle.
package tlsroots
