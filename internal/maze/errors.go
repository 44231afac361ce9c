package maze

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error that signals a caller bug or an
// inconsistent input rather than an unlucky random draw. Retryable
// failures are reported as a false result instead.
var ErrInvariant = errors.New("maze: invariant violation")

var (
	ErrUnknownScreen     = fmt.Errorf("%w: screen not in catalog", ErrInvariant)
	ErrDuplicateScreen   = fmt.Errorf("%w: screen catalogued twice", ErrInvariant)
	ErrOutOfBounds       = fmt.Errorf("%w: position out of bounds", ErrInvariant)
	ErrInvalidSize       = fmt.Errorf("%w: invalid grid size", ErrInvariant)
	ErrMisfit            = fmt.Errorf("%w: screen does not fit its neighbors", ErrInvariant)
	ErrBorder            = fmt.Errorf("%w: invalid border", ErrInvariant)
	ErrIncompatibleExits = fmt.Errorf("%w: incompatible exit types", ErrInvariant)
	ErrNoOpenExit        = fmt.Errorf("%w: no unique open exit", ErrInvariant)
	ErrSurvey            = fmt.Errorf("%w: survey data missing", ErrInvariant)
	ErrNoPOI             = fmt.Errorf("%w: no point of interest left for spawn", ErrInvariant)
	ErrUnassignedTile    = fmt.Errorf("%w: virtual tile has no physical slot", ErrInvariant)
)
