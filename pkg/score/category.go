package score

import (
	"strings"

	"github.com/pkg/errors"
)

// Category is the priority band derived from a total score.
type Category string

const (
	High   Category = "High"
	Medium Category = "Medium"
	Low    Category = "Low"
)

// Categories returns all categories, highest priority first.
func Categories() []Category {
	return []Category{High, Medium, Low}
}

// ParseCategory parses a category name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	default:
		return "", errors.Errorf("invalid category: %q", s)
	}
}

// ParseCategories parses a list of category names, skipping blanks.
func ParseCategories(list []string) ([]Category, error) {
	out := make([]Category, 0, len(list))
	for _, v := range list {
		if strings.TrimSpace(v) == "" {
			continue
		}
		c, err := ParseCategory(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (c Category) String() string {
	return string(c)
}

// Rank orders categories for sorting (lower = higher priority).
func (c Category) Rank() int {
	switch c {
	case High:
		return 0
	case Medium:
		return 1
	case Low:
		return 2
	default:
		return 3
	}
}
