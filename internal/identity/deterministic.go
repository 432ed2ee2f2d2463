package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ArticleUUID derives the canonical identifier for an article slug. An
// article has no identity beyond its content, so the same slug always maps
// to the same UUID.
func ArticleUUID(slug string) uuid.UUID {
	return UUID("go-article:article:" + strings.ToLower(strings.TrimSpace(slug)))
}

// RevisionUUID derives the identifier for a specific revision of an article,
// keyed by the content checksum so identical content never forks identity.
func RevisionUUID(articleID uuid.UUID, checksum string) uuid.UUID {
	return UUID("go-article:revision:" + articleID.String() + ":" + strings.TrimSpace(checksum))
}
