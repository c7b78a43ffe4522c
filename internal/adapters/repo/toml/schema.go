package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

// accountSchema keeps the public key either inline or as a reference into
// the key store. Inline material wins when both are present.
type accountSchema struct {
	ID           string `toml:"id"`
	Handle       string `toml:"handle"`
	PublicKey    string `toml:"public_key,multiline,omitempty"`
	PublicKeyRef string `toml:"public_key_ref,omitempty"`
	ProfileImage string `toml:"profile_image,omitempty"`
	ProfileURL   string `toml:"profile_url,omitempty"`
	// CreatedAt is written as an RFC 3339 string. Hand-edited files may use
	// a native TOML datetime instead.
	CreatedAt any `toml:"created_at,omitempty"`
}
