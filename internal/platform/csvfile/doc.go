// Package csvfile implements the store interfaces on append-only local files:
// a delimited, fully quoted card CSV without header row, and a plain-text
// log of raw model responses. Both files are opened once in append mode and
// accumulate across runs.
package csvfile
