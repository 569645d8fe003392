// Package cli wires the orchestration engine to the command line: prompt
// preparation, image loading, dispatch, and output formatting.
package cli

import (
	"fmt"
	"sort"
	"strings"
)

// tonePresets are the instructions prepended to the user's text for each
// tone. The selected text itself is never rewritten locally; the model does
// the work.
var tonePresets = map[string]string{
	"proofread": "Proofread the following text. Fix spelling, grammar, and punctuation without changing its meaning. Reply with the corrected text only.",
	"formal":    "Rewrite the following text in a formal, professional register. Reply with the rewritten text only.",
	"casual":    "Rewrite the following text in a relaxed, conversational register. Reply with the rewritten text only.",
	"translate": "Translate the following text into English. If it is already English, translate it into the language it most likely should be in. Reply with the translation only.",
	"summarize": "Summarize the following text in a few sentences. Reply with the summary only.",
}

// ApplyTone prepends the preset instruction for a tone to the prompt. An
// empty tone returns the prompt unchanged; an unknown tone is an error.
func ApplyTone(tone, prompt string) (string, error) {
	if tone == "" {
		return prompt, nil
	}
	preset, ok := tonePresets[strings.ToLower(tone)]
	if !ok {
		return "", fmt.Errorf("unknown tone %q (available: %s)", tone, strings.Join(ToneNames(), ", "))
	}
	return preset + "\n\n" + prompt, nil
}

// ToneNames returns the available tone names, sorted.
func ToneNames() []string {
	names := make([]string, 0, len(tonePresets))
	for name := range tonePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
