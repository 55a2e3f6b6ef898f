package reporter

import (
	"fmt"

	"github.com/svfront/svfront/ids"
)

// Location is a single point or span in a source file, always expressed in
// original (not preprocessor-expanded) coordinates by the time it reaches a
// Diagnostic: callers are expected to have already passed expanded-file
// positions through a location-translation cache.
type Location struct {
	File                   ids.PathId
	StartLine, StartColumn uint32
	EndLine, EndColumn     uint32
}

// NoLocation is used for diagnostics that are not attributable to a single
// source span (e.g. a whole-compilation-unit error).
var NoLocation = Location{}

func (l Location) String() string {
	if l.EndLine == 0 && l.EndColumn == 0 {
		return fmt.Sprintf("%v:%d:%d", l.File, l.StartLine, l.StartColumn)
	}
	return fmt.Sprintf("%v:%d:%d-%d:%d", l.File, l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
}
