package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Disclaimer closes every synthesized summary.
const Disclaimer = "This combined opinion is informational only and is not a substitute for the advice of a licensed physician."

// Synthesizer is the replaceable merge policy that turns answered
// outcomes into one summary text. Implementations receive only answered
// outcomes, already in roster order.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request, answered []AgentOutcome) (string, error)
}

// Compile-time interface checks.
var (
	_ Synthesizer = (*LabelSynthesizer)(nil)
	_ Synthesizer = (*ModelSynthesizer)(nil)
)

// LabelSynthesizer merges answers by labeled concatenation in roster
// order. Specialists whose opinions are identical after whitespace and
// case normalization are reported once, attributed to all of them with
// the highest-priority contributor named first. The output is a pure
// function of its input.
type LabelSynthesizer struct{}

// Synthesize implements Synthesizer.
func (LabelSynthesizer) Synthesize(_ context.Context, _ Request, answered []AgentOutcome) (string, error) {
	if len(answered) == 0 {
		return "", fmt.Errorf("synthesize: no answered outcomes")
	}

	type contributor struct {
		name     string
		priority int
		index    int
	}
	type block struct {
		contributors []contributor
		text         string
	}

	// Group identical answers. Blocks keep the roster order of their
	// earliest contributor because answered is iterated in roster order.
	byNorm := make(map[string]*block)
	var blocks []*block

	for i, ao := range answered {
		c := contributor{name: ao.Agent.Name, priority: ao.Agent.Priority, index: i}

		norm := normalizeAnswer(ao.Outcome.Answer)
		if b, ok := byNorm[norm]; ok {
			b.contributors = append(b.contributors, c)
			continue
		}

		b := &block{
			contributors: []contributor{c},
			text:         strings.TrimSpace(ao.Outcome.Answer),
		}
		byNorm[norm] = b
		blocks = append(blocks, b)
	}

	parts := make([]string, 0, len(blocks)+1)
	for _, b := range blocks {
		sort.Slice(b.contributors, func(i, j int) bool {
			ci, cj := b.contributors[i], b.contributors[j]
			if ci.priority != cj.priority {
				return ci.priority < cj.priority
			}
			return ci.index < cj.index
		})

		names := make([]string, len(b.contributors))
		for i, c := range b.contributors {
			names[i] = c.name
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", strings.Join(names, ", "), b.text))
	}
	parts = append(parts, Disclaimer)

	return strings.Join(parts, "\n\n---\n\n"), nil
}

// normalizeAnswer lowercases and collapses whitespace so trivially
// restated duplicates merge.
func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
