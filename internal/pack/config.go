package pack

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ProblemConfig holds the validated parameters a packing problem is
// generated from. Width and height ranges are inclusive.
type ProblemConfig struct {
	RectCount int   `json:"rectCount" validate:"gt=0"`
	WidthMin  int   `json:"widthMin" validate:"gt=0,ltefield=WidthMax"`
	WidthMax  int   `json:"widthMax" validate:"gt=0,ltefield=BoxSide"`
	HeightMin int   `json:"heightMin" validate:"gt=0,ltefield=HeightMax"`
	HeightMax int   `json:"heightMax" validate:"gt=0,ltefield=BoxSide"`
	BoxSide   int   `json:"boxSide" validate:"gt=0"`
	Seed      int64 `json:"seed"`
}

// Validate checks the configuration before any algorithm runs. A failure
// here is fatal to the run.
func (c ProblemConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid problem configuration: %w", err)
	}
	return nil
}

// ParseRange parses an inclusive "min-max" range flag such as "1-10".
func ParseRange(s string) (lo, hi int, err error) {
	if _, err := fmt.Sscanf(s, "%d-%d", &lo, &hi); err != nil {
		return 0, 0, fmt.Errorf("invalid range %q (want min-max): %w", s, err)
	}
	return lo, hi, nil
}
