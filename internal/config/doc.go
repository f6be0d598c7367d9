// Package config provides configuration management for the sbu CLI.
//
// The configuration file supplies defaults for flags the user does not
// pass explicitly; flags always win.
//
// # Configuration File
//
// The default location is <XDG config>/sbu/config.yaml (on Linux,
// ~/.config/sbu/config.yaml). YAML format:
//
//	overwrite_mode: default   # default | force | interactive
//	compress: tgz             # zip | tar | tgz | tzst
//	workers: 8                # validation parallelism
//	report: false             # write sbu-report.toml into the destination
//
// Environment variables with the SBU_ prefix override file values
// (e.g. SBU_WORKERS=4).
//
// # Loading
//
// Call [Init] once at startup, then [Load] with an empty path for the
// default search behavior. A missing config file is not an error;
// defaults apply.
package config
