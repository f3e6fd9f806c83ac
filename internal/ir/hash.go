package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainScene        = "scenegen/scene/v1"
	DomainSceneContent = "scenegen/scene-content/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SceneID computes the content-addressed ID of a scene.
// Two scenes with structurally equal content share an ID regardless of
// property-bag key order or float spelling in the source JSON.
func SceneID(s *SceneStructure) (string, error) {
	canonical, err := CanonicalScene(s)
	if err != nil {
		return "", fmt.Errorf("SceneID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainScene, canonical), nil
}

// ContentHash hashes the exact encoded form of a scene. Strings are not
// normalized, so scenes that differ only in Unicode normalization share a
// SceneID but never a ContentHash.
func ContentHash(s *SceneStructure) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", fmt.Errorf("ContentHash: failed to encode: %w", err)
	}
	return hashWithDomain(DomainSceneContent, data), nil
}

// MustSceneID is like SceneID but panics on error.
// Use only in tests or when the scene is known to be valid.
func MustSceneID(s *SceneStructure) string {
	id, err := SceneID(s)
	if err != nil {
		panic(err)
	}
	return id
}
