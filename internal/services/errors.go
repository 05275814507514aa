package services

import "errors"

// ErrInvalidScope is returned for export scopes other than all and filtered
var ErrInvalidScope = errors.New("invalid export scope")
