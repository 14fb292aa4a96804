// Package config defines the hireflow-cli configuration.
//
// Sources, later overriding earlier: defaults, the YAML file, .env files,
// HIREFLOW_* environment variables, command-line flags. Keys have no
// underscores so that HIREFLOW_SERVICES_USER maps to services.user.
package config
