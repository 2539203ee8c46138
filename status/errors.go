package status

// HTTPError is an error with an HTTP status code attached, so a hosting
// runtime can turn it into an error response without guessing.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrHeadersSent          = NewError(InternalServerError, "headers already sent")
	ErrInvalidStatusCode    = NewError(InternalServerError, "invalid status code")
	ErrInvalidHeaderChar    = NewError(InternalServerError, "invalid character in header content")
	ErrInvalidHeaderValue   = NewError(InternalServerError, "invalid header value")
	ErrInvalidArgumentType  = NewError(InternalServerError, "argument is of unsupported type")
	ErrUnsupportedEncoding  = NewError(InternalServerError, "encoding is not supported")
	ErrWriteAfterEnd        = NewError(InternalServerError, "write after the message was finished")
	ErrMethodNotImplemented = NewError(NotImplemented, "the method requires a real socket")
	ErrReleased             = NewError(InternalServerError, "the outgoing message was released")
)
