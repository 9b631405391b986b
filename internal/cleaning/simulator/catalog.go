package simulator

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed steps.yaml
var defaultSteps []byte

// Catalog is the ordered list of step labels a run walks through.
type Catalog struct {
	Steps []string `yaml:"steps"`
}

// LoadCatalog parses a YAML step list.
func LoadCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse step catalog: %w", err)
	}

	if len(c.Steps) == 0 {
		return Catalog{}, errors.New("step catalog is empty")
	}
	for i, label := range c.Steps {
		if strings.TrimSpace(label) == "" {
			return Catalog{}, fmt.Errorf("step %d has an empty label", i)
		}
	}

	return c, nil
}

// DefaultCatalog returns the embedded six-step catalog.
func DefaultCatalog() Catalog {
	c, err := LoadCatalog(defaultSteps)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Catalog) Len() int {
	return len(c.Steps)
}

// Width is the share of the progress range covered by one step.
func (c Catalog) Width() float64 {
	return 100 / float64(len(c.Steps))
}

// IndexFor maps progress to floor(progress / Width()), clamped to the catalog.
// It is computed as progress*len/100 so boundaries such as 50% land exactly.
func (c Catalog) IndexFor(progress float64) int {
	idx := int(math.Floor(progress * float64(len(c.Steps)) / 100))
	if idx < 0 {
		return 0
	}
	if last := len(c.Steps) - 1; idx > last {
		return last
	}
	return idx
}

func (c Catalog) Label(idx int) string {
	if idx < 0 || idx >= len(c.Steps) {
		return ""
	}
	return c.Steps[idx]
}
