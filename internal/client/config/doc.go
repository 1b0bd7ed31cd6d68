// Package config loads runtime configuration for the carblock CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend server
//	-u string   proxy basic-auth user
//	-p string   proxy basic-auth password
//	-f string   session file path
//
// # JSON schema
//
//	{
//	  "server_url": "https://carblock.example.com",
//	  "proxy_user": "gate",
//	  "proxy_password": "secret",
//	  "session_file": "/home/me/.carblock/session.json"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
