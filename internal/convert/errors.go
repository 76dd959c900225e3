package convert

import (
	"errors"
	"fmt"
)

// ErrConversionFailed matches every error returned by a failed conversion.
var ErrConversionFailed = errors.New("conversion failed")

// Stage names the pipeline step a conversion failed in.
type Stage string

const (
	StageRead    Stage = "read"
	StageExtract Stage = "extract"
	StageBuild   Stage = "build"
)

// ConversionError carries the failing stage and the underlying cause.
type ConversionError struct {
	Stage Stage
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed at %s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Is reports ErrConversionFailed as a match so callers need not know the concrete type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversionFailed
}
