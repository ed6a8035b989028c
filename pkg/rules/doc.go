// Package rules maps archive target paths to merge strategies. The
// built-in classification covers the conventional jar layout
// (reference.conf, readme/license files, META-INF metadata, service
// descriptors); users can prepend their own pattern rules through
// configuration.
package rules
