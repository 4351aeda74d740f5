package docai

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a Document AI failure for retry and reporting decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindQuota
	KindTransient
	KindUnsupportedFormat
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindTransient:
		return "transient"
	case KindUnsupportedFormat:
		return "unsupported_format"
	default:
		return "unknown"
	}
}

// ServiceError is a classified Document AI failure. Attempts counts every
// submission tried before giving up, including the first.
type ServiceError struct {
	Kind     Kind
	Attempts int
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("document ai %s error after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Classify maps a gRPC error from the Document AI API onto the taxonomy.
func Classify(err error) Kind {
	s, ok := status.FromError(err)
	if !ok {
		return KindUnknown
	}
	switch s.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return KindAuth
	case codes.ResourceExhausted:
		return KindQuota
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
		return KindTransient
	case codes.InvalidArgument, codes.FailedPrecondition:
		return KindUnsupportedFormat
	default:
		return KindUnknown
	}
}

// Retryable reports whether another submission attempt may succeed.
func Retryable(k Kind) bool {
	return k == KindQuota || k == KindTransient
}

// Reason renders a ServiceError as a caller-facing message without internal
// detail. Other errors fall back to their plain message.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var se *ServiceError
	if !errors.As(err, &se) {
		return err.Error()
	}
	switch se.Kind {
	case KindAuth:
		return "authentication with the document processing service failed"
	case KindQuota:
		return fmt.Sprintf("document processing quota exhausted after %d attempts", se.Attempts)
	case KindTransient:
		return fmt.Sprintf("document processing service unavailable after %d attempts", se.Attempts)
	case KindUnsupportedFormat:
		return "the document format is not supported by the processor"
	default:
		return "document processing failed"
	}
}
