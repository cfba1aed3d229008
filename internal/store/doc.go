// Package store defines interfaces for output persistence operations.
// These interfaces abstract where generated cards and raw model responses
// end up from the pipeline that produces them.
package store
