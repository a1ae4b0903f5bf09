package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examvault/go-session"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trims and lowercases",
			input:    "  User@Test.COM ",
			expected: "user@test.com",
		},
		{
			name:     "already normalized",
			input:    "user@test.com",
			expected: "user@test.com",
		},
		{
			name:     "empty string",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, session.NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizeEmailIsIdempotent(t *testing.T) {
	once := session.NormalizeEmail(" User@Test.com ")
	twice := session.NormalizeEmail(once)
	assert.Equal(t, once, twice)
}

func TestNewProfileDocument(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	doc := session.NewProfileDocument(" User@Test.com ", " Jane ", " 10 ", createdAt)

	assert.Equal(t, "user@test.com", doc.Email)
	assert.Equal(t, "Jane", doc.Name)
	assert.Equal(t, "10", doc.Grade)
	assert.Equal(t, createdAt.UnixMilli(), doc.CreatedAt)

	// new documents carry empty, non-nil sets so the wire encoding is
	// always an array
	require.NotNil(t, doc.Favorites)
	require.NotNil(t, doc.Downloads)
	assert.Empty(t, doc.Favorites)
	assert.Empty(t, doc.Downloads)
}

func TestProfileFromDocument(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		doc := session.ProfileDocument{
			Email:     "user@test.com",
			Name:      "Jane",
			Grade:     "10",
			Favorites: []string{"paper-1"},
			Downloads: []string{"paper-2"},
			CreatedAt: createdAt.UnixMilli(),
		}

		user := session.ProfileFromDocument("uid-1", &doc)
		require.NotNil(t, user)
		assert.Equal(t, "uid-1", user.ID)
		assert.Equal(t, "user@test.com", user.Email)
		assert.Equal(t, "Jane", user.DisplayName)
		assert.Equal(t, "10", user.GradeLevel)
		assert.True(t, user.CreatedAt.Equal(createdAt))

		back := user.Document()
		assert.Equal(t, doc, back)
	})

	t.Run("defaults for sparse documents", func(t *testing.T) {
		user := session.ProfileFromDocument("uid-1", &session.ProfileDocument{
			Email: "user@test.com",
		})

		require.NotNil(t, user.FavoriteIDs)
		require.NotNil(t, user.DownloadedIDs)
		assert.Empty(t, user.FavoriteIDs)
		assert.Empty(t, user.DownloadedIDs)
	})
}

func TestUserProfileClone(t *testing.T) {
	user := &session.UserProfile{
		ID:          "uid-1",
		Email:       "user@test.com",
		FavoriteIDs: []string{"paper-1"},
	}

	clone := user.Clone()
	require.NotNil(t, clone)

	clone.FavoriteIDs = append(clone.FavoriteIDs, "paper-2")
	assert.Equal(t, []string{"paper-1"}, user.FavoriteIDs)

	var nilUser *session.UserProfile
	assert.Nil(t, nilUser.Clone())
}

func TestUserProfileMembership(t *testing.T) {
	user := &session.UserProfile{
		FavoriteIDs:   []string{"paper-1"},
		DownloadedIDs: []string{"paper-2"},
	}

	assert.True(t, user.HasFavorite("paper-1"))
	assert.False(t, user.HasFavorite("paper-2"))
	assert.True(t, user.HasDownloaded("paper-2"))
	assert.False(t, user.HasDownloaded("paper-1"))
}
