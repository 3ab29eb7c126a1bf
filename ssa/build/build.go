// Package build type checks a single Go package and builds its SSA form.
//
// Sources come either from files (FromFiles), all of which must belong to
// the same package, or from an io.Reader holding one file (FromReader),
// which is handy in tests. Either returns a Configurer: optionally add a
// build log with WithBuildLog or an importer with WithImporter, then call
// Build to get an ssa.Info ready for lifting.
package build
