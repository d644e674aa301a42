// Package logging provides structured logging for DeviceLink.
//
// It wraps log/slog with JSON or text output, level filtering and the
// default fields service and version. File output is rotated by lumberjack.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "file"     # stdout, stderr, file
//	  file:
//	    path: "./logs/devicelink.log"
//	    max_size: 50     # megabytes
//	    max_backups: 5
//	    max_age: 28      # days
//
// Never log passwords, password hashes or tokens.
package logging
