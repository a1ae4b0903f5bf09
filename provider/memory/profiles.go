package memory

import (
	"context"
	"sync"

	"github.com/examvault/go-session"
)

// Profiles is an in-memory ProfileStore with per-document overwrite
// semantics, mirroring the remote store's contract.
type Profiles struct {
	mu   sync.Mutex
	docs map[string]session.ProfileDocument
}

var _ session.ProfileStore = (*Profiles)(nil)

// NewProfiles returns an empty in-memory profile store.
func NewProfiles() *Profiles {
	return &Profiles{
		docs: map[string]session.ProfileDocument{},
	}
}

// GetProfile returns a copy of the stored document, or (nil, nil) when the
// user has none.
func (p *Profiles) GetProfile(ctx context.Context, userID string) (*session.ProfileDocument, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, exists := p.docs[userID]
	if !exists {
		return nil, nil
	}

	cp := cloneDocument(doc)
	return &cp, nil
}

// PutProfile overwrites the document for the user.
func (p *Profiles) PutProfile(ctx context.Context, userID string, doc session.ProfileDocument) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.docs[userID] = cloneDocument(doc)
	return nil
}

func cloneDocument(doc session.ProfileDocument) session.ProfileDocument {
	cp := doc
	cp.Favorites = append([]string{}, doc.Favorites...)
	cp.Downloads = append([]string{}, doc.Downloads...)
	return cp
}
