package session

import "context"

// hydrate asynchronously fetches the profile document for the freshly
// authenticated user and populates the local projection. Fire-and-forget:
// the final failure is logged but never surfaced, so the UI sees no crash
// and no error, only an absent profile. A bounded retry narrows that gap
// for transient store failures.
func (m *Manager) hydrate(userID string) {
	go m.hydrateUser(context.Background(), userID)
}

func (m *Manager) hydrateUser(ctx context.Context, userID string) {
	var doc *ProfileDocument
	var err error

	for attempt := 0; attempt < m.hydrateAttempts; attempt++ {
		if attempt > 0 {
			m.sleep(m.hydrateBackoff)
		}

		doc, err = m.profiles.GetProfile(ctx, userID)
		if err == nil {
			break
		}
	}

	if err != nil {
		m.logger.Warn("profile hydration failed", "user_id", userID, "error", err)
		return
	}

	if doc == nil {
		m.logger.Warn("profile document missing during hydration", "user_id", userID)
		return
	}

	profile := ProfileFromDocument(userID, doc)

	m.mu.Lock()
	// the session may have signed out, or into a different account, while
	// the fetch was in flight
	if m.status != StatusAuthenticated || m.currentUID != userID {
		m.mu.Unlock()
		return
	}
	m.current = profile
	m.mu.Unlock()

	m.notify()
}
