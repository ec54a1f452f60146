package driver

import "errors"

var (
	ErrDriverNotFound    = errors.New("driver not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrPhoneTaken        = errors.New("phone already registered")
	ErrInvalidCreds      = errors.New("invalid email or password")
	ErrDriverBlocked     = errors.New("driver account is blocked")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidDocType    = errors.New("unknown document type")
	ErrDocumentNotPending = errors.New("document already reviewed")
	ErrReasonRequired    = errors.New("rejection reason required")
	ErrInvalidStatus     = errors.New("unknown driver status")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrUnsupportedFile   = errors.New("unsupported file type")
)
