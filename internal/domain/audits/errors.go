package audits

import "errors"

var (
	ErrNotFound      = errors.New("audit record not found")
	ErrInvalidImport = errors.New("invalid SPX import file")
)
