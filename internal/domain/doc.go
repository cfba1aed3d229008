// Package domain contains the core entities of the application: the
// flashcard record produced for each input word and the rules for turning
// raw model output into one.
package domain
