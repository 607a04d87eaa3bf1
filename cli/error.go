package cli

import "github.com/ardnew/nixeval/cli/cmd"

var (
	ErrImportCycle = cmd.NewError("import cycle")
	ErrNotFound    = cmd.NewError("file not found in search path")
	ErrInvalidArg  = cmd.NewError("invalid argument binding")
)
