package anthropic

import (
	"strings"
	"unicode"

	"github.com/ferndale-io/textgate/pkg/models"
)

// knownModelIDs is the full list of known-stable model identifiers used to
// seed the registry at construction time without network access.
var knownModelIDs = []string{
	"claude-3-5-sonnet-latest",
	"claude-3-5-haiku-latest",
	"claude-3-7-sonnet-latest",
	"claude-3-opus-latest",
	"claude-3-5-sonnet-20241022",
	"claude-3-5-haiku-20241022",
	"claude-3-7-sonnet-20250219",
	"claude-3-opus-20240229",
	"claude-3-haiku-20240307",
	"claude-sonnet-4-20250514",
	"claude-opus-4-20250514",
}

// fallbackModelIDs is the minimal set used when discovery fails or comes back
// empty. Strict subset of knownModelIDs: only the highest-confidence aliases.
var fallbackModelIDs = []string{
	"claude-3-5-sonnet-latest",
	"claude-3-5-haiku-latest",
	"claude-3-7-sonnet-latest",
}

// defaultParams is the parameter schema every Claude text model advertises.
func defaultParams() map[string]models.ParamSpec {
	return map[string]models.ParamSpec{
		"temperature": {Type: "float", Min: 0, Max: 1, Default: 1},
		"top_p":       {Type: "float", Min: 0, Max: 1, Default: 1},
		"max_tokens":  {Type: "int", Min: 1, Max: 8192, Default: defaultMaxTokens},
	}
}

// descriptorFor builds the immutable descriptor for one model id. The display
// name uses the API-provided label when present, otherwise one derived from
// the identifier.
func descriptorFor(id, label string) models.ModelInfo {
	if label == "" {
		label = displayName(id)
	}
	return models.ModelInfo{
		ID:           id,
		DisplayName:  label,
		Capabilities: []models.Capability{models.CapabilityTextGeneration},
		Params:       defaultParams(),
	}
}

// displayName derives a human-readable name from a model identifier:
// hyphens become spaces and each word is title-cased.
func displayName(id string) string {
	words := strings.Split(id, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
