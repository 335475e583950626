package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	slidesEmbedURLFormat = "https://docs.google.com/presentation/d/%s/embed?start=false&loop=false&delayms=3000"

	// GanttSheetURL is the live project plan spreadsheet.
	GanttSheetURL = "https://docs.google.com/spreadsheets/d/1zZi5ZNwPkHclOCGVB2T1UXE1ix0Dv885/edit?usp=drive_link&ouid=105434030311831990589&rtpof=true&sd=true"

	// RoadmapDeckFile is the optional local PowerPoint roadmap.
	RoadmapDeckFile = "roadmap.pptx"
)

var (
	// MilestoneCandidates are tried in order when looking for the milestones image.
	MilestoneCandidates = []string{"milestones.png", "milestones.jpg", "milestones.jpeg"}

	slidesIDRegEx = regexp.MustCompile(`/presentation/d/([A-Za-z0-9\-_]+)`)

	ErrMissingLocalResource = errors.New("local resource not found")
)

// Deck is a presentation shown as a tab with an embedded viewer.
type Deck struct {
	Key      string `json:"key" yaml:"key"`
	Tab      string `json:"tab" yaml:"tab"`
	Title    string `json:"title" yaml:"title"`
	EditURL  string `json:"edit_url" yaml:"edit_url"`
	EmbedURL string `json:"embed_url" yaml:"embed_url"`
}

// Decks returns the presentation tabs in display order.
func Decks() []Deck {
	decks := []Deck{
		{
			Key:     "roadmap",
			Tab:     "Roadmap",
			Title:   "Roadmap",
			EditURL: "https://docs.google.com/presentation/d/15RbqWfnNp9WoNr-7FQzHXnXp63GvGaK95AY08duQ4nQ/edit?usp=sharing",
		},
		{
			Key:     "location",
			Tab:     "Location selection",
			Title:   "Location Strategy for Expansion",
			EditURL: "https://docs.google.com/presentation/d/1m9Z3TW7TqPVxwSKNzFto2MHIMtOBP5HPLTcfsh5BJDo/edit?usp=sharing",
		},
		{
			Key:     "pricing",
			Tab:     "Dynamic pricing",
			Title:   "Dynamic Menu Pricing and Promotions",
			EditURL: "https://docs.google.com/presentation/d/1-LxmN8tAwjf6IJsqwkx8KPR7S7ABG75B0A2Z6We7Hb8/edit?usp=sharing",
		},
	}
	for i := range decks {
		decks[i].EmbedURL = SlidesEmbedURL(decks[i].EditURL)
	}
	return decks
}

// SlidesEmbedURL converts a Google Slides edit URL into its embeddable form.
// URLs without a presentation id are returned unchanged.
func SlidesEmbedURL(editURL string) string {
	m := slidesIDRegEx.FindStringSubmatch(editURL)
	if m == nil {
		return editURL
	}
	return fmt.Sprintf(slidesEmbedURLFormat, m[1])
}

// MissingLocalResourceError lists the files that were looked for.
type MissingLocalResourceError struct {
	Dir        string
	Candidates []string
}

func (e *MissingLocalResourceError) Error() string {
	return fmt.Sprintf("none of [%s] found in %s", strings.Join(e.Candidates, ", "), e.Dir)
}

func (e *MissingLocalResourceError) Is(target error) bool {
	return target == ErrMissingLocalResource
}

// FindLocal returns the path of the first candidate that exists as a regular
// file in dir.
func FindLocal(dir string, candidates ...string) (string, error) {
	if dir == "" {
		dir = "."
	}
	for _, c := range candidates {
		p := filepath.Join(dir, filepath.Base(c))
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", &MissingLocalResourceError{Dir: dir, Candidates: candidates}
}

// Hint is the informational message shown when a local resource is missing.
func Hint(err error) string {
	var me *MissingLocalResourceError
	if !errors.As(err, &me) {
		return ""
	}
	if len(me.Candidates) == 1 {
		return fmt.Sprintf("Place a file named %s in %s.", me.Candidates[0], me.Dir)
	}
	return fmt.Sprintf("Place a file named %s in %s.", strings.Join(me.Candidates, " or "), me.Dir)
}
