package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidesEmbedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://docs.google.com/presentation/d/abc-DEF_123/edit?usp=sharing",
			"https://docs.google.com/presentation/d/abc-DEF_123/embed?start=false&loop=false&delayms=3000",
		},
		{
			"https://docs.google.com/presentation/d/xyz",
			"https://docs.google.com/presentation/d/xyz/embed?start=false&loop=false&delayms=3000",
		},
		{"https://example.com/deck", "https://example.com/deck"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlidesEmbedURL(tt.in))
	}
}

func TestDecks(t *testing.T) {
	decks := Decks()
	require.Len(t, decks, 3)
	assert.Equal(t, "Roadmap", decks[0].Tab)
	assert.Equal(t, "Location selection", decks[1].Tab)
	assert.Equal(t, "Dynamic pricing", decks[2].Tab)
	for _, d := range decks {
		assert.Contains(t, d.EmbedURL, "/embed?start=false")
		assert.NotEqual(t, d.EditURL, d.EmbedURL)
	}
}

func TestFindLocal(t *testing.T) {
	dir := t.TempDir()

	_, err := FindLocal(dir, MilestoneCandidates...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingLocalResource))
	assert.Contains(t, Hint(err), "milestones.png or milestones.jpg or milestones.jpeg")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "milestones.jpeg"), []byte("img"), 0600))
	p, err := FindLocal(dir, MilestoneCandidates...)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "milestones.jpeg"), p)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "milestones.png"), []byte("img"), 0600))
	p, err = FindLocal(dir, MilestoneCandidates...)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "milestones.png"), p, "first candidate wins")
}

func TestFindLocal_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, RoadmapDeckFile), 0700))
	_, err := FindLocal(dir, RoadmapDeckFile)
	assert.ErrorIs(t, err, ErrMissingLocalResource)
	assert.Equal(t, fmt.Sprintf("Place a file named %s in %s.", RoadmapDeckFile, dir), Hint(err))
}

func TestHint_OtherError(t *testing.T) {
	assert.Empty(t, Hint(errors.New("boom")))
	assert.Empty(t, Hint(nil))
}

func TestFetch(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/milestones.png" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "png")
	}))
	t.Cleanup(s.Close)

	dir := filepath.Join(t.TempDir(), "assets")
	ctx := context.Background()

	p, err := Fetch(ctx, nil, s.URL+"/milestones.png", dir, "milestones.png")
	require.NoError(t, err)
	found, err := FindLocal(dir, MilestoneCandidates...)
	require.NoError(t, err)
	assert.Equal(t, p, found)

	_, err = Fetch(ctx, nil, s.URL+"/missing", dir, RoadmapDeckFile)
	assert.Error(t, err)

	_, err = Fetch(ctx, nil, "", dir, "x")
	assert.Error(t, err)
	_, err = Fetch(ctx, nil, s.URL, dir, "")
	assert.Error(t, err)
}
