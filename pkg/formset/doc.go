// Package formset reconciles the fields an admin form must submit so that a
// batch of freshly uploaded images attaches to its parent record through a
// generic inline formset.
//
// The payload is built from three sources merged in order: the fields already
// rendered on the page (minus submit controls and stale formset rows), the
// formset management fields, and one generated row per uploaded file. Later
// sources win on name collisions. Everything in this package is a pure
// transform over in-memory values; reading the page and sending the payload
// belong to the caller.
package formset
