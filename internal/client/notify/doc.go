// Package notify defines the capability used to show transient messages
// to the user.
package notify
