// Package callstate tracks the loading and error status of the calls a
// hook makes.
//
// Run sets Loading before a call and clears it afterwards, recording a
// displayable message on failure. The State is shared by every call a
// hook makes, so with overlapping calls the last one to settle decides
// the final Error; a mutex keeps the fields consistent, not ordered.
package callstate
