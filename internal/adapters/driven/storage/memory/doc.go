// Package memory provides in-memory implementations of driven ports.
// They serve as fakes in service and adapter tests.
package memory
