// Package flows implements the user-facing state machines of the client.
//
// A Flow drives one form: it validates the entered values against the
// declared schema, submits them through a service, and reports the outcome
// through a Notifier. A ListView drives one read-only list: it fetches once
// when mounted and settles into a loaded or failed state.
//
// Flows never talk to the network directly; they receive services and the
// session is reached only through them.
package flows
