// Package session reacts to expired sessions.
//
// Guard is an apiclient.Observer. When a response is classified as an
// authentication failure it clears the token store, sends the user back
// to the entry point through a Navigator, and optionally notifies. The
// failure itself still reaches the caller.
package session
