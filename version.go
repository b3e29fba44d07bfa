package laplace

import _ "embed"

// Version is the release of the solver, read from the VERSION file.
//
//go:embed VERSION
var Version string
