package config

import _ "embed"

// exampleYAML is the starter configuration written by "consilium init".
//
//go:embed consilium.example.yml
var exampleYAML []byte

// Example returns a starter configuration file with two specialists and
// label synthesis.
func Example() []byte {
	out := make([]byte, len(exampleYAML))
	copy(out, exampleYAML)
	return out
}
