// Package version exposes the build-time version, commit, and date of the
// subhunt binary. Values are injected via -ldflags and fall back to module
// build info when unset.
package version
