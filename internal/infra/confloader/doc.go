// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables, including values from .env files
//  3. Configuration file (YAML)
//  4. Default values already present in the target struct
//
// Environment keys drop the prefix, lowercase, and turn "_" into ".":
// HIREFLOW_HTTP_TIMEOUT becomes http.timeout. Config keys therefore never
// contain underscores.
//
// Watcher reports changes to a config file so a long-running shell can
// re-apply settings such as the log level.
package confloader
