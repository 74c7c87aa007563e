package planning

import "errors"

var (
	ErrNoFile          = errors.New("no file selected")
	ErrNotImage        = errors.New("file is not an image")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoDataSize      = errors.New("total data size is required")
	ErrEmptyComment    = errors.New("feedback comment is required")
	ErrInvalidInput    = errors.New("invalid input")
)
