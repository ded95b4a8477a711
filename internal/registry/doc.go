// Package registry provides the central glue between declarative graph
// definitions and compiled Go compute functions.
//
// Formula modules register their compute functions under stable string names
// (e.g. "pm.alpha_inverse") during application startup. Graph builders and
// the HCL loader then look those names up to attach evaluators to derived
// nodes. Registration is strict: a duplicate name is a programmer error and
// panics, so mismatches between code and configuration surface immediately
// rather than at resolve time.
package registry
