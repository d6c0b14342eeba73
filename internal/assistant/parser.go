package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultModelTimeout = 15 * time.Second

// Parser turns a message into a Result
type Parser interface {
	Parse(ctx context.Context, message string, uc UserContext) (*Result, error)
}

// ModelParser asks a Generator and falls back to RuleParser when it is unset, fails, or
// answers with an intent outside the catalog or without the fields the intent needs
type ModelParser struct {
	gen      Generator
	catalog  *Catalog
	fallback RuleParser
	timeout  time.Duration
}

// NewModelParser creates a parser. A nil gen parses with rules only.
func NewModelParser(gen Generator, catalog *Catalog) *ModelParser {
	return &ModelParser{gen: gen, catalog: catalog, timeout: defaultModelTimeout}
}

// Parse classifies message in the context of the user's data
func (p *ModelParser) Parse(ctx context.Context, message string, uc UserContext) (*Result, error) {
	if p.gen == nil {
		return p.fallback.Parse(message, uc), nil
	}
	mctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	r, err := p.ask(mctx, message, uc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err() // caller gave up
		}
		logrus.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Model parse failed, falling back to rules")
		return p.fallback.Parse(message, uc), nil
	}
	return r, nil
}

func (p *ModelParser) ask(ctx context.Context, message string, uc UserContext) (*Result, error) {
	text, err := p.gen.Generate(ctx, p.catalog.Prompt(uc, message))
	if err != nil {
		return nil, err
	}
	r, err := decodeRaw(text)
	if err != nil {
		return nil, err
	}
	intent := r.Intent
	if !p.catalog.Has(intent) {
		return nil, fmt.Errorf("intent %q is not in the catalog", intent)
	}
	r.Normalize()
	if intent != IntentUnknown && r.Intent == IntentUnknown {
		return nil, fmt.Errorf("model result for %s is incomplete", intent)
	}
	return r, nil
}
