// Package openai implements generation.Generator on the OpenAI chat
// completions API in JSON mode. Any OpenAI compatible gateway can be used by
// setting the base URL.
package openai
