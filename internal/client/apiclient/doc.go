// Package apiclient builds one HTTP client per backend service.
//
// Each Client carries an ordered, named request pipeline and response
// pipeline, fixed at construction:
//
//	request:  json-headers, user-agent, request-id, trace, bearer, [rate-limit]
//	response: classify, trace, metrics, log
//
// Observers run after the response pipeline with the final Outcome. The
// session guard is one: classify decides that a response is an
// authentication failure, the guard acts on it.
//
// The generic helpers Get, Post, Put, Patch and Delete decode 2xx bodies
// into T and turn everything else into *apierror.Error.
package apiclient
