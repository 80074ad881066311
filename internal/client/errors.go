package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError reports a required setting that is missing from the
// process configuration. It is always fatal.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Setting)
}

// ErrMissingAPIKey is returned by Fetch when the client was built without a credential.
var ErrMissingAPIKey = &ConfigurationError{Setting: "CFBD_API_KEY"}

// RemoteRequestError reports a single failed call to the CFBD API, including
// timeouts and bodies that do not decode.
type RemoteRequestError struct {
	Endpoint   string
	Params     Params
	StatusCode int // zero when no response was received
	Err        error
}

func (e *RemoteRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s %s failed (status %d %s): %v",
			e.Endpoint, e.Params, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	}
	return fmt.Sprintf("request to %s %s failed: %v", e.Endpoint, e.Params, e.Err)
}

func (e *RemoteRequestError) Unwrap() error {
	return e.Err
}

// IsRemoteRequestError reports whether err wraps a RemoteRequestError.
func IsRemoteRequestError(err error) bool {
	var remoteErr *RemoteRequestError
	return errors.As(err, &remoteErr)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
