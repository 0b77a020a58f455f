package proxy

// ErrorKind discriminates the closed set of failure modes of a proxy call.
type ErrorKind int

const (
	// KindRewrite means the rewritten path+query could not be composed into
	// a valid outbound URL. The request was never sent upstream.
	KindRewrite ErrorKind = iota
	// KindTransport means the upstream client failed to obtain a response
	// (connection refused, client timeout, protocol error).
	KindTransport
)

// String returns the kind as a stable label for logs and metrics.
func (k ErrorKind) String() string {
	switch k {
	case KindRewrite:
		return "rewrite"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is the only failure value a proxy call surfaces. Its descriptive
// text is meant for operator logs; clients receive a fixed internal-error
// response with an empty body.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func rewriteError(err error) *Error {
	return &Error{Kind: KindRewrite, Err: err}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}
