// Package log provides the application logger, built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - Automatic masking of sensitive values (passwords, connection strings, tokens)
//   - Clipping of long string values such as record prose and SQL
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Masking
//
// Record files document database code, and their usage examples and
// descriptions occasionally carry a connection string or a credential.
// The Handler masks:
//   - Attributes whose key names a secret (password, dsn, connection_string, token)
//   - Values that look like a secret (connection strings with a password,
//     bearer tokens, JWTs, private key blocks)
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("record loaded",
//	    "procedure", rec.QualifiedName(),
//	    "connection_string", dsn, // masked
//	)
//
//	slog.SetDefault(logger)
package log
