// Package prompt renders retrieved chunks and a user question into a
// single generation prompt.
package prompt

import (
	"strings"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

// DefaultTemplate instructs the model to lean on the context block only
// when it actually helps with the question. {context} and {question} are
// the two substitution points.
const DefaultTemplate = `You are SpaceBot, an expert guide to space exploration.

You have context information about space missions and astronomy.
IMPORTANT: Only use the context if it is relevant to the question.
If the context is not helpful or relevant, simply answer the question based on your knowledge.
Do not force irrelevant information into your response.

Context (use only if relevant):
{context}

Question: {question}

Answer:`

// Assembler fills a prompt template with retrieved context.
type Assembler struct {
	template string
}

// New returns an Assembler using template, or DefaultTemplate when
// template is empty.
func New(template string) *Assembler {
	if template == "" {
		template = DefaultTemplate
	}
	return &Assembler{template: template}
}

// Assemble renders the full prompt. Each chunk's text becomes one line
// of the context block, in retrieval order. Zero chunks produce an
// empty context block and the model is left to answer unassisted.
func (a *Assembler) Assemble(question string, chunks []models.ScoredChunk) string {
	lines := make([]string, 0, len(chunks))
	for _, sc := range chunks {
		lines = append(lines, sc.Chunk.Text)
	}
	out := strings.ReplaceAll(a.template, "{context}", strings.Join(lines, "\n"))
	return strings.ReplaceAll(out, "{question}", question)
}
