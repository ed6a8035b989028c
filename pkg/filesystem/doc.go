// Package filesystem provides types.FS implementations: the real OS
// filesystem for production and an afero-backed one for tests.
package filesystem
