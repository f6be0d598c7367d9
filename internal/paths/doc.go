// Package paths provides path canonicalization and containment utilities
// for the backup engine, plus XDG-compliant configuration directories.
//
// # Canonicalization
//
// All safety rules in the backup engine compare canonical paths: absolute,
// symlink-resolved, with "." and ".." segments eliminated. Use
// [Canonicalize] to obtain this form. Two paths refer to the same file or
// a containment relationship only if their canonical forms say so; this
// prevents rule bypass via symlinks or relative segments.
//
// # Containment
//
// [IsWithin] implements the strict-descendant check used by the
// destination containment rules. A path is never within itself, and
// prefix matching is separator-aware so /foo does not contain /foobar.
//
// # XDG Directories
//
// The package wraps github.com/adrg/xdg so the configuration file lands
// in the platform-conventional location (~/.config/sbu/config.yaml on
// Linux).
package paths
