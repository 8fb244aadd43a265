// Package event is the application's message bus.
//
// Every user or system action is an Event, a plain struct naming its Kind.
// A handler turns an event into a Result: an ordered list of immediate Steps
// (nested events and state writes, applied synchronously in one state batch)
// and at most one Deferred piece of work (an effect Request or a Delay) whose
// continuation event is dispatched when it resolves.
//
// Dispatch is serialized. State observers run while the bus lock is held and
// must not call Dispatch synchronously.
//
//   - event.go: Event, Step, Result, Request, Delay.
//   - bus.go: Bus, handler registration, dispatch and scheduling.
//   - errors.go: UnknownKindError, HandlerError, Message.
//   - publisher.go: Occurrence publishing for tests and diagnostics.
//   - metrics.go: Prometheus collectors.
package event
