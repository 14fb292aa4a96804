// Package apierror defines the normalized error returned by every backend
// call.
//
// Whatever went wrong (no connection, timeout, non-2xx answer, expired
// session, invalid request) callers receive an *Error with a Kind and a
// human-readable Message. The raw transport error is never exposed.
package apierror
