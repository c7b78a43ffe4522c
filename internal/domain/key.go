package domain

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"unicode/utf8"
)

const (
	pemTypePKIXPublicKey  = "PUBLIC KEY"
	pemTypePKCS1PublicKey = "RSA PUBLIC KEY"
	pemBeginMarker        = "-----BEGIN "
)

// KeyDescriptor binds a public key to the actor that owns it.
type KeyDescriptor struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPEM string `json:"publicKeyPem"`
}

// NewKeyDescriptor validates material as a PEM-encoded public key and binds
// it to identityURL. Remote verifiers compare owner against the actor id
// literally, so identityURL is used verbatim.
func NewKeyDescriptor(identityURL string, material []byte) (KeyDescriptor, error) {
	if identityURL == "" {
		return KeyDescriptor{}, fmt.Errorf("%w: identity url is empty", ErrConfiguration)
	}

	text, err := ValidatePublicKeyPEM(material)
	if err != nil {
		return KeyDescriptor{}, err
	}

	return KeyDescriptor{
		ID:           identityURL + mainKeyFragment,
		Owner:        identityURL,
		PublicKeyPEM: text,
	}, nil
}

// ValidatePublicKeyPEM checks that material is UTF-8 text holding exactly one
// parseable PEM public key and returns that block re-encoded. Anything around
// the block is rejected so that no other key material can be published.
func ValidatePublicKeyPEM(material []byte) (string, error) {
	if len(material) == 0 {
		return "", fmt.Errorf("%w: key material is empty", ErrInvalidKeyMaterial)
	}
	if !utf8.Valid(material) {
		return "", fmt.Errorf("%w: key material is not valid utf-8", ErrInvalidKeyMaterial)
	}

	trimmed := bytes.TrimSpace(material)
	if !bytes.HasPrefix(trimmed, []byte(pemBeginMarker)) {
		if bytes.Contains(trimmed, []byte(pemBeginMarker)) {
			return "", fmt.Errorf("%w: unexpected data before the pem block", ErrInvalidKeyMaterial)
		}
		return "", fmt.Errorf("%w: no pem block found", ErrInvalidKeyMaterial)
	}

	block, rest := pem.Decode(trimmed)
	if block == nil {
		return "", fmt.Errorf("%w: no pem block found", ErrInvalidKeyMaterial)
	}
	if len(bytes.TrimSpace(rest)) > 0 {
		return "", fmt.Errorf("%w: unexpected data after the %s block", ErrInvalidKeyMaterial, block.Type)
	}

	switch block.Type {
	case pemTypePKIXPublicKey:
		if _, err := x509.ParsePKIXPublicKey(block.Bytes); err != nil {
			return "", fmt.Errorf("%w: parse pkix public key: %v", ErrInvalidKeyMaterial, err)
		}
	case pemTypePKCS1PublicKey:
		if _, err := x509.ParsePKCS1PublicKey(block.Bytes); err != nil {
			return "", fmt.Errorf("%w: parse pkcs1 public key: %v", ErrInvalidKeyMaterial, err)
		}
	default:
		return "", fmt.Errorf("%w: unexpected pem type %q", ErrInvalidKeyMaterial, block.Type)
	}

	return string(pem.EncodeToMemory(block)), nil
}
