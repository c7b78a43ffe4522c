package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	actorPathPrefix = "/user/"
	inboxSuffix     = "/inbox"
	outboxSuffix    = "/outbox"
	mainKeyFragment = "#main-key"
)

// URLBuilder derives actor URLs from a single base endpoint. Every URL it
// produces uses the https scheme, whatever scheme the base was observed with.
type URLBuilder struct {
	base string
}

// ActorURLs is the set of URLs published for one actor.
type ActorURLs struct {
	Identity string
	Inbox    string
	Outbox   string
	Profile  string
}

func NewURLBuilder(base string) (URLBuilder, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return URLBuilder{}, fmt.Errorf("%w: base url is empty", ErrConfiguration)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return URLBuilder{}, fmt.Errorf("%w: parse base url: %v", ErrConfiguration, err)
	}
	if parsed.Host == "" {
		return URLBuilder{}, fmt.Errorf("%w: base url %q has no host", ErrConfiguration, base)
	}

	parsed.Scheme = "https"
	parsed.User = nil
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawPath = ""

	return URLBuilder{base: parsed.String()}, nil
}

func (b URLBuilder) Base() string {
	return b.base
}

func (b URLBuilder) Identity(handle string) string {
	return b.base + actorPathPrefix + url.PathEscape(handle)
}

func (b URLBuilder) Inbox(handle string) string {
	return b.Identity(handle) + inboxSuffix
}

func (b URLBuilder) Outbox(handle string) string {
	return b.Identity(handle) + outboxSuffix
}

// Profile is the web profile of the actor on this server. It is the same
// resource as the identity; the requester's Accept header picks the
// representation.
func (b URLBuilder) Profile(handle string) string {
	return b.Identity(handle)
}

func (b URLBuilder) Actor(handle string) ActorURLs {
	return ActorURLs{
		Identity: b.Identity(handle),
		Inbox:    b.Inbox(handle),
		Outbox:   b.Outbox(handle),
		Profile:  b.Profile(handle),
	}
}

// ActorPath is the server-relative path of the actor resource for handle.
func ActorPath(handle string) string {
	return actorPathPrefix + url.PathEscape(handle)
}
