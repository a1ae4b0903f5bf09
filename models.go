package session

import (
	"strings"
	"time"
)

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Applied identically before every remote call; idempotent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserProfile is the local projection of a user's profile document. ID is
// the identity-service-issued identifier and the primary key into the
// profile store.
type UserProfile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	GradeLevel    string    `json:"grade_level"`
	FavoriteIDs   []string  `json:"favorite_ids"`
	DownloadedIDs []string  `json:"downloaded_ids"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasFavorite reports whether the paper is bookmarked.
func (p *UserProfile) HasFavorite(paperID string) bool {
	return containsID(p.FavoriteIDs, paperID)
}

// HasDownloaded reports whether the paper has been downloaded.
func (p *UserProfile) HasDownloaded(paperID string) bool {
	return containsID(p.DownloadedIDs, paperID)
}

// Clone returns a deep copy so snapshots never alias manager state.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.FavoriteIDs = append([]string(nil), p.FavoriteIDs...)
	cp.DownloadedIDs = append([]string(nil), p.DownloadedIDs...)
	return &cp
}

// Document projects the profile back into its wire shape for overwrite
// writes.
func (p *UserProfile) Document() ProfileDocument {
	return ProfileDocument{
		Email:     p.Email,
		Name:      p.DisplayName,
		Grade:     p.GradeLevel,
		Favorites: append([]string{}, p.FavoriteIDs...),
		Downloads: append([]string{}, p.DownloadedIDs...),
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// ProfileDocument is the persisted document shape in the remote store.
// CreatedAt is epoch milliseconds.
type ProfileDocument struct {
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Grade     string   `json:"grade"`
	Favorites []string `json:"favorites"`
	Downloads []string `json:"downloads"`
	CreatedAt int64    `json:"createdAt"`
}

// NewProfileDocument builds the document written exactly once, at
// registration. Favorites and downloads start as empty, non-nil sets.
func NewProfileDocument(email, name, grade string, createdAt time.Time) ProfileDocument {
	return ProfileDocument{
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Grade:     strings.TrimSpace(grade),
		Favorites: []string{},
		Downloads: []string{},
		CreatedAt: createdAt.UnixMilli(),
	}
}

// ProfileFromDocument materializes the local projection with defensive
// defaults: a missing email stays an empty string, missing sets stay empty.
func ProfileFromDocument(userID string, doc *ProfileDocument) *UserProfile {
	profile := &UserProfile{
		ID:            userID,
		FavoriteIDs:   []string{},
		DownloadedIDs: []string{},
	}

	if doc == nil {
		return profile
	}

	profile.Email = doc.Email
	profile.DisplayName = doc.Name
	profile.GradeLevel = doc.Grade
	if len(doc.Favorites) > 0 {
		profile.FavoriteIDs = append([]string{}, doc.Favorites...)
	}
	if len(doc.Downloads) > 0 {
		profile.DownloadedIDs = append([]string{}, doc.Downloads...)
	}
	if doc.CreatedAt > 0 {
		profile.CreatedAt = time.UnixMilli(doc.CreatedAt)
	}

	return profile
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func appendUniqueID(ids []string, id string) []string {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
