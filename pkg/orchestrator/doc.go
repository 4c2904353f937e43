// Package orchestrator wires configuration, the uploader and the renderer
// registry so callers can render the attached images inline and reconcile its
// submission from a single entry point.
package orchestrator
