// Package logging provides concrete implementations of the pbimodel.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes formatted messages to stderr (or any writer) with thread-safe output
//   - NullLogger: discards all messages
//   - Recorder: keeps messages in memory so tests can assert on warnings
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
