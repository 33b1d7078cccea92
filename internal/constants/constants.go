// Package constants defines shared constants used across the iacgate codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const EnvConfigDir = "IACGATE_CONFIG"

// Application paths
const (
	AppName        = "iacgate"
	ConfigFileName = "config.toml"
	AuditFileName  = "audit.log"
)
