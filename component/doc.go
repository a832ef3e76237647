// Package component defines lifecycle-managed infrastructure pieces and the
// registry that starts and stops them.
//
// A Component is started in registration order and stopped in reverse.
// Components that implement Describable show up in the startup summary.
package component
