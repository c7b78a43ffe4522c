package httpapi

import (
	"errors"
	"mime"
	"strconv"
	"strings"
)

const (
	ActivityJSONMediaType = "application/activity+json"
	LDJSONMediaType       = "application/ld+json"
)

var federationMediaTypes = []string{ActivityJSONMediaType, LDJSONMediaType}

type Representation int

const (
	// RepresentationRedirect sends the requester to the human-facing profile.
	RepresentationRedirect Representation = iota
	// RepresentationDocument serves the actor document.
	RepresentationDocument
)

func (r Representation) String() string {
	switch r {
	case RepresentationDocument:
		return "document"
	case RepresentationRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Negotiate picks the representation for the given Accept header values.
// Missing or empty values select the redirect.
func Negotiate(acceptValues []string) Representation {
	accepted := ParseAccept(acceptValues)
	for _, mediaType := range federationMediaTypes {
		if _, ok := accepted[mediaType]; ok {
			return RepresentationDocument
		}
	}

	return RepresentationRedirect
}

// ParseAccept returns the distinct media types listed in the Accept header
// values, without parameters. Entries whose media type cannot be parsed and
// entries with q=0 are dropped.
func ParseAccept(acceptValues []string) map[string]struct{} {
	accepted := make(map[string]struct{})
	for _, value := range acceptValues {
		for _, entry := range strings.Split(value, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}

			// A malformed parameter still leaves a usable media type.
			mediaType, params, err := mime.ParseMediaType(entry)
			if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
				continue
			}
			if refused(params) {
				continue
			}

			accepted[mediaType] = struct{}{}
		}
	}

	return accepted
}

func refused(params map[string]string) bool {
	raw, ok := params["q"]
	if !ok {
		return false
	}

	quality, err := strconv.ParseFloat(raw, 64)
	return err == nil && quality <= 0
}
