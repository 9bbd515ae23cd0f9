package plan

import "errors"

var ErrUnknownTier = errors.New("unknown plan tier")
