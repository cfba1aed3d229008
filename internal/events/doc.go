// Package events provides types and interfaces for progress notifications.
//
// The card pipeline emits an event for every state change of a word without
// knowing who listens; the command line registers a console handler, tests
// register recorders.
//
// The primary components are:
// - PipelineEvent: one progress notification
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
