// Package app wires the engine together: it owns the application lifecycle
// from configuration and logger setup through graph construction, resolution,
// and report writing. The CLI layer translates flags into an app.Config; the
// App does everything else.
package app
