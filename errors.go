package catfocus

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownCommand = errors.New("unknown command")
)
