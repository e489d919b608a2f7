// Package pipeline runs an exported design document through extraction and
// every generator.
package pipeline

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/matthewsawatzky/whitelabel/internal/extract"
	"github.com/matthewsawatzky/whitelabel/internal/generate"
	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

var ErrNoBrand = errors.New("white label name is required")

// Output is everything one generation produces.
type Output struct {
	Brand     string
	Extracted extract.Result
	Artifacts generate.Artifacts
}

type Pipeline struct {
	extractor *extract.Extractor
	generator *generate.Generator
	logger    *slog.Logger
}

func New(opts generate.Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extract.New(logger),
		generator: generate.New(opts),
		logger:    logger,
	}
}

// Run builds a fresh theme from doc and renders it for brand.
func (p *Pipeline) Run(doc *extract.Document, brand string) (*Output, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, ErrNoBrand
	}
	if doc == nil {
		doc = &extract.Document{}
	}
	res := p.extractor.Extract(doc, theme.NewAccumulator())
	arts, err := p.generator.All(res.Model, brand, res.Strings)
	if err != nil {
		return nil, err
	}
	p.logger.Info("theme generated", "brand", brand, "applied", res.Applied, "skipped", res.Skipped, "colors", len(res.Colors))
	return &Output{Brand: brand, Extracted: res, Artifacts: arts}, nil
}

// Summary is the compact record kept in the run history.
type Summary struct {
	Applied     int      `json:"applied"`
	Skipped     int      `json:"skipped"`
	Colors      int      `json:"colors"`
	Collections []string `json:"collections,omitempty"`
}

func (o *Output) Summary() Summary {
	s := Summary{Applied: o.Extracted.Applied, Skipped: o.Extracted.Skipped, Colors: len(o.Extracted.Colors)}
	for _, c := range o.Extracted.Collections {
		s.Collections = append(s.Collections, c.Name)
	}
	return s
}
