// Package tokenstore persists the signed-in session.
//
// A session is two values under fixed keys: the bearer token (auth_token)
// and the user id (user_id). A present token means the user is signed in;
// there is no "expired but present" state. Expiry is discovered only when
// a backend answers 401, at which point the session guard calls Remove.
//
// Values live in a storage.KV medium (Badger on disk, or memory) and are
// optionally sealed with pkg/crypto/adaptive when a secret is configured.
//
// Reads never fail: a storage error or a value that cannot be opened is
// logged and reported as absence.
package tokenstore
