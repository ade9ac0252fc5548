// Package logging provides structured logging for configmirror built on the
// standard slog package.
//
// Every log entry carries a subsystem identifier so that output from the
// watcher, the reconciler and the file store can be told apart. Messages
// support printf-style formatting and errors are attached as a structured
// attribute rather than interpolated into the message.
//
// Initialize once at startup:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
// Then log from anywhere:
//
//	logging.Info("Reconciler", "Wrote %d files for %s", n, identity)
//	logging.Error("FileStore", err, "Failed to write %s", path)
package logging
