// Package modelsync keeps locally persisted ML model metadata in sync with a
// remote model-download service.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Client type - Applications call Sync to ask
//     the server whether a newer version of a named model exists, fetching
//     and persisting the download URL, size, and integrity hash only when
//     something actually changed.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     "models" subcommand tree to their Cobra root command, providing
//     commands like "mytool models sync", "mytool models info", etc.
//
// # Conditional Fetching
//
// Every synced model carries the server's cache-validation hash. Subsequent
// Sync calls send it back in an If-None-Match header, so an unchanged model
// costs one 304 round trip and no payload. Persisted metadata is only written
// after a fully validated 200 response.
//
// # What This Package Does Not Do
//
// The artifact itself is never transferred here. A separate download stage
// consumes ModelInfo.DownloadURL and reports the resulting file location back
// through Client.SetLocalPath; only then does LocalModel hand out a usable
// descriptor.
//
// # Storage
//
// Metadata lives in platform-appropriate directories:
//   - Linux: $XDG_DATA_HOME/<app>/modelsync/ or ~/.local/share/<app>/modelsync/
//   - macOS: ~/Library/Application Support/<app>/modelsync/
//   - Windows: %APPDATA%\<app>\modelsync\
//
// A sqlite-backed store is available for callers that prefer a database over
// flat files; see NewSQLiteStore.
package modelsync
