package score

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	RatingMin = 1
	RatingMax = 5
)

var (
	ErrOutOfRangeRating = errors.New("rating out of range")
	ErrDuplicateName    = errors.New("duplicate use case name")
	ErrNegativeBudget   = errors.New("negative budget")
)

// OutOfRangeRatingError identifies the use case and axis with a rating outside [1,5].
type OutOfRangeRatingError struct {
	UseCase string
	Axis    string
	Value   int
}

func (e *OutOfRangeRatingError) Error() string {
	return fmt.Sprintf("%s: %s rating %d not in [%d,%d]", e.UseCase, e.Axis, e.Value, RatingMin, RatingMax)
}

func (e *OutOfRangeRatingError) Is(target error) bool {
	return target == ErrOutOfRangeRating
}

// Validate checks ratings are within [1,5], names are unique and non-empty,
// and budgets are non-negative. It returns the first problem found.
func Validate(in []UseCase) error {
	seen := make(map[string]struct{}, len(in))
	for i, u := range in {
		if u.Name == "" {
			return errors.Errorf("use case %d: name required", i)
		}
		if _, ok := seen[u.Name]; ok {
			return errors.Wrap(ErrDuplicateName, u.Name)
		}
		seen[u.Name] = struct{}{}

		for _, r := range []struct {
			axis  string
			value int
		}{
			{"revenue", u.Revenue},
			{"cost", u.Cost},
			{"ease", u.Ease},
			{"human", u.Human},
		} {
			if r.value < RatingMin || r.value > RatingMax {
				return &OutOfRangeRatingError{UseCase: u.Name, Axis: r.axis, Value: r.value}
			}
		}

		if u.Budget < 0 {
			return errors.Wrapf(ErrNegativeBudget, "%s: %.3f", u.Name, u.Budget)
		}
	}
	return nil
}
