package normalize

import (
	"context"
	"log/slog"
	"strings"
)

// TranslationChunkRunes is the largest piece of text sent to a Translator at once.
const TranslationChunkRunes = 4000

// Translator converts text from a source language into English.
type Translator interface {
	Translate(ctx context.Context, text, sourceLanguage string) (string, error)
}

// TranslatorFunc adapts a plain function to Translator.
type TranslatorFunc func(ctx context.Context, text, sourceLanguage string) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, text, sourceLanguage string) (string, error) {
	return f(ctx, text, sourceLanguage)
}

// PassThrough returns text unchanged.
type PassThrough struct{}

func (PassThrough) Translate(_ context.Context, text, _ string) (string, error) { return text, nil }

// translate returns text in English. Any translation failure returns the
// original text so analysis can still run.
func (n *Normalizer) translate(ctx context.Context, text, language string) string {
	if IsEnglish(language) {
		return text
	}

	chunks := chunkRunes(text, TranslationChunkRunes)
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := n.translator.Translate(ctx, chunk, language)
		if err != nil {
			slog.Warn("translation failed, using original text", "language", language, "error", err)
			return text
		}
		out = append(out, translated)
	}
	return strings.Join(out, " ")
}

// IsEnglish reports whether language names English or is unset.
func IsEnglish(language string) bool {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "english", "en":
		return true
	}
	return false
}

// chunkRunes splits s into pieces of at most size runes.
func chunkRunes(s string, size int) []string {
	runes := []rune(s)
	if len(runes) <= size {
		return []string{s}
	}
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
