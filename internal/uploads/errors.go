package uploads

import "errors"

var (
	// ErrNoFileProvided means the request carried no file under the upload field.
	ErrNoFileProvided = errors.New("no file provided")
	// ErrUnsupportedFormat means the declared MIME type of the upload is not PDF.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrPayloadTooLarge means the upload exceeded the configured size ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")
)
