package artifact

import "errors"

var ErrUnknownKind = errors.New("unknown artifact kind")
