package domain

import (
	"fmt"
	"html"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	ActivityStreamsContext = "https://www.w3.org/ns/activitystreams"
	SecurityContext        = "https://w3id.org/security/v1"

	DefaultProfileLabel   = "Steam Profile"
	defaultIconMediaType  = "image/jpeg"
	iconObjectType        = "Image"
	propertyValueTypeName = "PropertyValue"
)

// iconMediaTypes is fixed so documents do not depend on the host's mime
// tables.
var iconMediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jfif": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
}

// ActorKind is the ActivityPub actor type. Only individual accounts are
// published today.
type ActorKind string

const (
	ActorKindPerson ActorKind = "Person"
)

func (k ActorKind) Valid() bool {
	switch k {
	case ActorKindPerson:
		return true
	default:
		return false
	}
}

type Icon struct {
	Type      string `json:"type"`
	MediaType string `json:"mediaType"`
	URL       string `json:"url"`
}

type PropertyValue struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ActorDocument struct {
	ID                        string          `json:"id"`
	Type                      ActorKind       `json:"type"`
	Inbox                     string          `json:"inbox"`
	Outbox                    string          `json:"outbox"`
	Name                      string          `json:"name"`
	PreferredUsername         string          `json:"preferredUsername"`
	Summary                   string          `json:"summary"`
	Discoverable              bool            `json:"discoverable"`
	ManuallyApprovesFollowers bool            `json:"manuallyApprovesFollowers"`
	PublicKey                 KeyDescriptor   `json:"publicKey"`
	Icon                      Icon            `json:"icon"`
	URL                       string          `json:"url"`
	Attachment                []PropertyValue `json:"attachment"`
	Published                 string          `json:"published"`
	AlsoKnownAs               []string        `json:"alsoKnownAs"`
	AttributionDomains        []string        `json:"attributionDomains"`
}

// ContextualActor is an ActorDocument with its JSON-LD context prepended.
type ContextualActor struct {
	Context []string `json:"@context"`
	ActorDocument
}

type ActorOptions struct {
	Summary string
	// ProfileLabel names the external profile attachment.
	ProfileLabel string
}

// BuildActor composes the actor document for account. It has no side effects
// and returns the same document for the same inputs.
func BuildActor(account Account, urls ActorURLs, key KeyDescriptor, opts ActorOptions) (ActorDocument, error) {
	if key.Owner != urls.Identity {
		return ActorDocument{}, fmt.Errorf("%w: key owner %q does not match actor id %q", ErrConfiguration, key.Owner, urls.Identity)
	}

	label := opts.ProfileLabel
	if label == "" {
		label = DefaultProfileLabel
	}

	return ActorDocument{
		ID:                        urls.Identity,
		Type:                      ActorKindPerson,
		Inbox:                     urls.Inbox,
		Outbox:                    urls.Outbox,
		Name:                      account.Handle,
		PreferredUsername:         account.Handle,
		Summary:                   opts.Summary,
		Discoverable:              true,
		ManuallyApprovesFollowers: false,
		PublicKey:                 key,
		Icon: Icon{
			Type:      iconObjectType,
			MediaType: iconMediaType(account.ProfileImageURL),
			URL:       account.ProfileImageURL,
		},
		URL:                urls.Profile,
		Attachment:         profileAttachments(account.ProfileURL, label),
		Published:          formatPublished(account.CreatedAt),
		AlsoKnownAs:        linkedIdentities(account.ProfileURL),
		AttributionDomains: linkedIdentities(account.ProfileURL),
	}, nil
}

func WithContext(doc ActorDocument) ContextualActor {
	return ContextualActor{
		Context:       []string{ActivityStreamsContext, SecurityContext},
		ActorDocument: doc,
	}
}

func profileAttachments(profileURL, label string) []PropertyValue {
	if profileURL == "" {
		return []PropertyValue{}
	}

	return []PropertyValue{{
		Type:  propertyValueTypeName,
		Name:  label,
		Value: fmt.Sprintf(`<a href="%s" rel="me nofollow noopener noreferrer" target="_blank">%s</a>`, html.EscapeString(profileURL), html.EscapeString(label)),
	}}
}

func linkedIdentities(profileURL string) []string {
	if profileURL == "" {
		return []string{}
	}

	return []string{profileURL}
}

func iconMediaType(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return defaultIconMediaType
	}

	if mediaType, ok := iconMediaTypes[strings.ToLower(path.Ext(parsed.Path))]; ok {
		return mediaType
	}

	return defaultIconMediaType
}

func formatPublished(createdAt time.Time) string {
	if createdAt.IsZero() {
		return ""
	}

	return createdAt.UTC().Format(time.RFC3339)
}
