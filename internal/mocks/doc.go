// Package mocks provides hand-written test doubles for the generation and
// store ports: MockGenerator, MockCardStore and MockRawLogStore.
//
// Each mock takes an optional Fn field that overrides its behaviour and
// records what it was called with, so tests can assert on the words
// requested, the cards saved and the raw entries logged:
//
//	gen := &mocks.MockGenerator{
//	    GenerateCardJSONFn: func(ctx context.Context, word string) (string, error) {
//	        return `{"simplified": "你好"}`, nil
//	    },
//	}
package mocks
