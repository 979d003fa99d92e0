// Package config provides configuration structures and utilities for planetpage.
// It defines where the planet feed and the landing page live, how the landing
// page is patched, and where build history is stored.
//
// Configuration is layered: defaults from NewConfig, then the YAML file found
// by FindConfigFile, then PLANETPAGE_* environment variables, then CLI flags.
package config
