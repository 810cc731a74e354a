// Package config loads runtime configuration for the gophauth CLI client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally read from a dotenv file given with
//     -env (./.env is tried when the flag is absent).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-db string  path of the SQLite session database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "backend_url": "http://localhost:3000",
//	  "token_db": "session.db",
//	  "request_timeout": "10s"
//	}
package config
