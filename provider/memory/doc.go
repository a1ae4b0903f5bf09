// Package memory provides in-memory implementations of the identity
// service and profile store for tests and the example program.
package memory
