package session

import "context"

// Bookmark and download tracking. These mutate the profile document with
// overwrite semantics and mirror the change locally only after the store
// acknowledges the write, so a failed write leaves the local sets intact.
// They are not identity operations and do not touch the busy flag or the
// user-facing messages.

// AddFavorite bookmarks a paper for the signed-in user.
func (m *Manager) AddFavorite(ctx context.Context, paperID string) error {
	return m.mutateProfile(ctx, func(p *UserProfile) {
		p.FavoriteIDs = appendUniqueID(p.FavoriteIDs, paperID)
	})
}

// RemoveFavorite drops a bookmark.
func (m *Manager) RemoveFavorite(ctx context.Context, paperID string) error {
	return m.mutateProfile(ctx, func(p *UserProfile) {
		p.FavoriteIDs = removeID(p.FavoriteIDs, paperID)
	})
}

// MarkDownloaded records a paper download. Downloads are append-only:
// there is no removal operation.
func (m *Manager) MarkDownloaded(ctx context.Context, paperID string) error {
	return m.mutateProfile(ctx, func(p *UserProfile) {
		p.DownloadedIDs = appendUniqueID(p.DownloadedIDs, paperID)
	})
}

func (m *Manager) mutateProfile(ctx context.Context, apply func(*UserProfile)) error {
	m.mu.Lock()

	if m.status != StatusAuthenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}

	if m.current == nil {
		m.mu.Unlock()
		return ErrProfileNotLoaded
	}

	updated := m.current.Clone()
	m.mu.Unlock()

	apply(updated)

	if err := m.profiles.PutProfile(ctx, updated.ID, updated.Document()); err != nil {
		classified := Classify(err)
		m.logger.Warn("profile update failed", "user_id", updated.ID, "error", classified)
		return classified
	}

	m.mu.Lock()
	if m.current != nil && m.current.ID == updated.ID {
		m.current = updated
	}
	m.mu.Unlock()

	m.notify()
	return nil
}
