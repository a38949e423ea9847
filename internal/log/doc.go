// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (tokens, secrets, bank data)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - Banking and tax identifiers from trade documents (IBAN, SWIFT, GSTIN)
//   - Session identifiers and authentication tokens
//
// Trade documents routinely contain counterparty bank details; even in
// verbose mode these values are masked so logs can be shared with support
// or attached to tickets without leaking them.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("payload loaded",
//	    "iban", "DE89370400440532013000",  // Will be masked
//	    "file", "invoice.pdf",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
