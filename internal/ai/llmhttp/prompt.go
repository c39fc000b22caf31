package llmhttp

import "fmt"

// Kind names what a provider is asked to produce.
type Kind string

const (
	KindExplanation Kind = "explanation"
	KindSuggestion  Kind = "suggestion"
	KindTranslation Kind = "translation"
)

// Sampling settings shared by every provider.
const (
	Temperature          = 0.3
	ExplanationMaxTokens = 150
	SuggestionMaxTokens  = 200
	TranslationMaxTokens = 4096
)

// Prompt is a single-turn completion request.
type Prompt struct {
	Kind        Kind
	Text        string
	Temperature float64
	MaxTokens   int
}

// ExplainPrompt asks for a short plain-English reading of a clause.
func ExplainPrompt(clause string) Prompt {
	return Prompt{
		Kind: KindExplanation,
		Text: fmt.Sprintf(`Explain this legal clause in simple business English:

"%s"

Explain in 2-3 sentences what this means for a business owner.
Focus on obligations, rights, and practical implications.`, clause),
		Temperature: Temperature,
		MaxTokens:   ExplanationMaxTokens,
	}
}

// SuggestPrompt asks for balanced alternative wording for a clause.
func SuggestPrompt(clause string) Prompt {
	return Prompt{
		Kind: KindSuggestion,
		Text: fmt.Sprintf(`This is a potentially risky contract clause:

"%s"

Suggest a more balanced alternative that protects both parties.
Provide 1-2 alternative phrasings in plain English.`, clause),
		Temperature: Temperature,
		MaxTokens:   SuggestionMaxTokens,
	}
}

// TranslatePrompt asks for an English rendering of a contract excerpt.
// Temperature is zero so the wording stays close to the source.
func TranslatePrompt(text, sourceLanguage string) Prompt {
	return Prompt{
		Kind: KindTranslation,
		Text: fmt.Sprintf(`Translate the following %s contract text into English.
Keep clause numbering, line breaks, and legal meaning intact.
Reply with the translation only.

%s`, sourceLanguage, text),
		MaxTokens: TranslationMaxTokens,
	}
}

// For returns the prompt of the given kind.
func For(kind Kind, clause string) Prompt {
	if kind == KindSuggestion {
		return SuggestPrompt(clause)
	}
	return ExplainPrompt(clause)
}
