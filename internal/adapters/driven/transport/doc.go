// Package transport holds pieces shared by the conversion transports:
// request pacing, Retry-After parsing and the mode-to-transport factory.
//
// The wire protocols themselves live in the direct and jobapi subpackages.
package transport
