// Package failure defines the error taxonomy of an ingestion run.
//
// Transport and malformed-response errors are fatal to a single external
// call. DataUnavailable is fatal to the run. CacheInvalid never reaches the
// user: it makes the orchestrator rebuild the artifact.
package failure

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// snippetLen bounds the response body carried in error messages.
const snippetLen = 200

// Snippet trims a response body to a short single-line excerpt. The cut
// falls on a rune boundary and invalid bytes are replaced.
func Snippet(body []byte) string {
	s := strings.ToValidUTF8(string(body), "\uFFFD")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= snippetLen {
		return s
	}
	cut := snippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TransportError is a non-2xx status or network-level failure on an external
// call. It is never retried.
type TransportError struct {
	URL        string
	StatusCode int // 0 for network-level failures
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedError is a response whose payload does not have the expected shape.
type MalformedError struct {
	Source string
	Body   string
	Err    error
}

func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("unexpected %s payload", e.Source)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += fmt.Sprintf(" (body: %s)", e.Body)
	}
	return msg
}

func (e *MalformedError) Unwrap() error { return e.Err }

// DataUnavailableError means a fetch produced zero usable rows. Nothing is
// persisted when it is returned.
type DataUnavailableError struct {
	Artifact string
	Cause    string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: no data available: %s", e.Artifact, e.Cause)
}

// CacheInvalidError marks an on-disk artifact as unusable.
type CacheInvalidError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *CacheInvalidError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("cache %s missing columns %s", e.Path, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("cache %s invalid: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("cache %s invalid", e.Path)
	}
}

func (e *CacheInvalidError) Unwrap() error { return e.Err }

// Kind names an error class for logs and the run ledger.
type Kind string

const (
	KindNone            Kind = ""
	KindTransport       Kind = "transport_failure"
	KindMalformed       Kind = "response_malformed"
	KindDataUnavailable Kind = "data_unavailable"
	KindCacheInvalid    Kind = "cache_invalid"
	KindOther           Kind = "other"
)

// Classifier lets errors from other packages declare their Kind.
type Classifier interface {
	FailureKind() Kind
}

// KindOf classifies err by walking its wrap chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var te *TransportError
	var me *MalformedError
	var de *DataUnavailableError
	var ce *CacheInvalidError
	var cl Classifier

	switch {
	case errors.As(err, &de):
		return KindDataUnavailable
	case errors.As(err, &ce):
		return KindCacheInvalid
	case errors.As(err, &te):
		return KindTransport
	case errors.As(err, &me):
		return KindMalformed
	case errors.As(err, &cl):
		return cl.FailureKind()
	}
	return KindOther
}
