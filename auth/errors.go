package auth

type clientError int

func (e clientError) Error() string {
	switch e {
	case ErrInvalidIdentity:
		return "the claimed identity could not be normalized to a hostname"
	case ErrNoAuthEndpoint:
		return "no authorization endpoint found"
	case ErrNoPendingLogin:
		return "no pending login for this identity"
	case ErrAuthenticationRejected:
		return "the authorization endpoint rejected the code"
	case ErrMissingScope:
		return "the authorization endpoint granted no scope"
	case ErrUnauthorized:
		return "unauthorized"
	default:
		panic("missing error definition")
	}
}

const (
	// ErrInvalidIdentity means the entered 'me' has no usable host.
	ErrInvalidIdentity clientError = iota

	// ErrNoAuthEndpoint means discovery found no authorization
	// endpoint for the entered 'me'.
	ErrNoAuthEndpoint

	// ErrNoPendingLogin means there is no live login attempt for the
	// identity, either because none was started or because it expired.
	ErrNoPendingLogin

	// ErrAuthenticationRejected means the remote endpoint did not
	// confirm the code, or could not be reached in time.
	ErrAuthenticationRejected

	// ErrMissingScope means a code exchange succeeded but the
	// endpoint's response carried no scope to bind the token to.
	ErrMissingScope

	// ErrUnauthorized means a token was missing, or belongs to a
	// domain this site does not publish for.
	ErrUnauthorized
)
