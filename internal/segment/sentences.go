package segment

import (
	"fmt"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceTokenizer splits text into sentences in order.
type SentenceTokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a plain function to SentenceTokenizer.
type TokenizerFunc func(text string) []string

func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// PunktTokenizer detects English sentence boundaries with the punkt algorithm,
// which knows common abbreviations ("Mr.", "Inc.", "e.g.") that end in a period
// without ending the sentence.
type PunktTokenizer struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewPunktTokenizer loads the bundled English training data.
func NewPunktTokenizer() (*PunktTokenizer, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english sentence tokenizer: %w", err)
	}
	return &PunktTokenizer{tok: tok}, nil
}

func (p *PunktTokenizer) Tokenize(text string) []string {
	sents := p.tok.Tokenize(text)
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		out = append(out, s.Text)
	}
	return out
}

var _ SentenceTokenizer = (*PunktTokenizer)(nil)
