package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		accept []string
		want   Representation
	}{
		{name: "activity json", accept: []string{"application/activity+json"}, want: RepresentationDocument},
		{name: "ld json", accept: []string{"application/ld+json"}, want: RepresentationDocument},
		{name: "ld json with profile", accept: []string{`application/ld+json; profile="https://www.w3.org/ns/activitystreams"`}, want: RepresentationDocument},
		{name: "mixed case", accept: []string{"Application/Activity+JSON"}, want: RepresentationDocument},
		{name: "one of many", accept: []string{"text/html, application/activity+json;q=0.9, */*;q=0.1"}, want: RepresentationDocument},
		{name: "split across header lines", accept: []string{"text/html", "application/ld+json"}, want: RepresentationDocument},
		{name: "html", accept: []string{"text/html"}, want: RepresentationRedirect},
		{name: "browser default", accept: []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"}, want: RepresentationRedirect},
		{name: "plain json", accept: []string{"application/json"}, want: RepresentationRedirect},
		{name: "wildcard", accept: []string{"*/*"}, want: RepresentationRedirect},
		{name: "empty header", accept: []string{""}, want: RepresentationRedirect},
		{name: "missing header", accept: nil, want: RepresentationRedirect},
		{name: "only commas", accept: []string{" , ,"}, want: RepresentationRedirect},
		{name: "substring is not a match", accept: []string{"application/activity+jsonx"}, want: RepresentationRedirect},
		{name: "prefix is not a match", accept: []string{"xapplication/ld+json"}, want: RepresentationRedirect},
		{name: "explicitly refused", accept: []string{"application/activity+json;q=0, text/html"}, want: RepresentationRedirect},
		{name: "malformed parameter", accept: []string{"application/activity+json; charset"}, want: RepresentationDocument},
		{name: "malformed parameter on html", accept: []string{"text/html; level"}, want: RepresentationRedirect},
		{name: "garbage", accept: []string{";;;,==="}, want: RepresentationRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.accept))
		})
	}
}

func TestParseAcceptDeduplicatesAndStripsParameters(t *testing.T) {
	accepted := ParseAccept([]string{
		"application/activity+json; charset=utf-8",
		"application/activity+json, text/html;level=1",
	})

	assert.Equal(t, map[string]struct{}{
		"application/activity+json": {},
		"text/html":                 {},
	}, accepted)
}

func TestParseAcceptKeepsMediaTypeWithMalformedParameter(t *testing.T) {
	accepted := ParseAccept([]string{"application/activity+json; charset, application/ld+json; =x"})

	assert.Equal(t, map[string]struct{}{
		"application/activity+json": {},
		"application/ld+json":       {},
	}, accepted)
}

func TestRepresentationString(t *testing.T) {
	assert.Equal(t, "document", RepresentationDocument.String())
	assert.Equal(t, "redirect", RepresentationRedirect.String())
	assert.Equal(t, "unknown", Representation(42).String())
}
