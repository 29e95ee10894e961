package noaa

import (
	"fmt"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind int

const (
	// KindTransport is a network failure; NOAA was never heard from.
	KindTransport ErrorKind = iota
	// KindStatus is a non-2xx HTTP status.
	KindStatus
	// KindMalformed is a body that is not the expected JSON.
	KindMalformed
	// KindAPI is an error object sent by NOAA, e.g. for an impossible date.
	KindAPI
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// FetchError is the error returned by Client.GetPredictions.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	// Message is NOAA's explanation, when it gave one.
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("could not reach NOAA: %v", e.Err)
	case KindStatus:
		return fmt.Sprintf("NOAA returned status %d", e.StatusCode)
	case KindAPI:
		return fmt.Sprintf("NOAA rejected the request: %s", e.Message)
	case KindMalformed:
		if e.Err != nil {
			return fmt.Sprintf("could not read NOAA response: %v", e.Err)
		}
		return fmt.Sprintf("could not read NOAA response: %s", e.Message)
	}
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
