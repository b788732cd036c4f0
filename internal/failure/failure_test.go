package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

type kindedErr struct{}

func (kindedErr) Error() string     { return "kinded" }
func (kindedErr) FailureKind() Kind { return KindTransport }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"transport", &TransportError{URL: "u", StatusCode: 500}, KindTransport},
		{"malformed", &MalformedError{Source: "acs"}, KindMalformed},
		{"data unavailable", &DataUnavailableError{Artifact: "schools"}, KindDataUnavailable},
		{"cache invalid", &CacheInvalidError{Path: "x.csv"}, KindCacheInvalid},
		{"wrapped fmt", fmt.Errorf("outer: %w", &TransportError{URL: "u"}), KindTransport},
		{"classifier", kindedErr{}, KindTransport},
		{"other", errors.New("boom"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindOf_ThroughEris(t *testing.T) {
	err := eris.Wrap(&MalformedError{Source: "geocoder"}, "competitors: geocode")
	assert.Equal(t, KindMalformed, KindOf(err))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", Snippet([]byte("a\n  b\tc ")))

	long := strings.Repeat("x", 500)
	assert.Len(t, Snippet([]byte(long)), snippetLen)
}

func TestSnippet_RuneBoundary(t *testing.T) {
	// 199 ASCII bytes then a 3-byte rune straddling the limit.
	body := strings.Repeat("x", snippetLen-1) + "€tail"
	s := Snippet([]byte(body))
	assert.True(t, utf8.ValidString(s))
	assert.Equal(t, strings.Repeat("x", snippetLen-1), s)

	assert.True(t, utf8.ValidString(Snippet([]byte{'a', 0xff, 'b'})))
}

func TestErrorMessages(t *testing.T) {
	te := &TransportError{URL: "http://x", StatusCode: 503, Body: "down"}
	assert.Equal(t, "request to http://x returned status 503: down", te.Error())

	ne := &TransportError{URL: "http://x", Err: errors.New("dial tcp: refused")}
	assert.Contains(t, ne.Error(), "dial tcp: refused")

	de := &DataUnavailableError{Artifact: "competitors", Cause: "no schools geocoded"}
	assert.Equal(t, "competitors: no data available: no schools geocoded", de.Error())

	ce := &CacheInvalidError{Path: "a.csv", Missing: []string{"lat", "lon"}}
	assert.Equal(t, "cache a.csv missing columns lat, lon", ce.Error())

	me := &MalformedError{Source: "acs", Body: "<html>"}
	assert.Equal(t, "unexpected acs payload (body: <html>)", me.Error())
}
