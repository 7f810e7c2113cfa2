package apikey

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

var (
	ErrMissingAPIKey = errors.New("missing API key")
	ErrInvalidAPIKey = errors.New("invalid API key provided")
)

const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
)

// Authenticator checks a shared secret presented in a configured request
// header. The configuration is fixed at construction and safe for concurrent
// use.
type Authenticator struct {
	headerName string
	apiKey     []byte
}

func NewAuthenticator(headerName, apiKey string) *Authenticator {
	return &Authenticator{
		headerName: headerName,
		apiKey:     []byte(apiKey),
	}
}

func (a *Authenticator) HeaderName() string {
	return a.headerName
}

// Authenticate returns nil when the first value of the configured header
// equals the API key exactly, ErrMissingAPIKey when the header is absent and
// ErrInvalidAPIKey otherwise.
func (a *Authenticator) Authenticate(header http.Header) error {
	values := header.Values(a.headerName)
	if len(values) == 0 {
		return ErrMissingAPIKey
	}

	if subtle.ConstantTimeCompare([]byte(values[0]), a.apiKey) != 1 {
		return ErrInvalidAPIKey
	}

	return nil
}

// Reason maps an authentication error to a short label.
func Reason(err error) string {
	if errors.Is(err, ErrMissingAPIKey) {
		return ReasonMissing
	}
	return ReasonInvalid
}
