// Package effect runs externally visible asynchronous work (HTTP calls, timers)
// on behalf of the event bus.
//
//   - registry.go: Registry, typed registration, Run with exactly-once delivery.
//   - config.go: Config and package defaults.
//   - admission.go: cap on concurrently running effects.
//   - delay.go: the built-in timer effect.
//   - errors.go: Failure, UnknownEffectError and Is* helpers.
//   - metrics.go: Prometheus collectors.
package effect
