package domain

import "strings"

type AIModel struct {
	ID          string
	Name        string
	Description string
	Thinking    bool
	Premium     bool
}

var modelCatalog = []AIModel{
	{ID: "gemini-flash-lite-latest", Name: "Gemini Flash Lite", Description: "Fast answers for everyday questions"},
	{ID: "gemini-flash-latest", Name: "Gemini Flash", Description: "Balanced model with visible reasoning"},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Reasoning model"},
	{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: "Previous generation flash model"},
	{ID: "gemini-2.0-flash-thinking-exp", Name: "Gemini 2.0 Flash Thinking", Description: "Experimental reasoning model"},
	{ID: "gemini-2.0-pro-exp", Name: "Gemini 2.0 Pro", Description: "Most capable model for in-depth analysis"},
}

func init() {
	for i := range modelCatalog {
		modelCatalog[i].Thinking = IsThinkingModel(modelCatalog[i].ID)
		modelCatalog[i].Premium = IsPremiumModel(modelCatalog[i].ID)
	}
}

// Models returns the selectable models in display order.
func Models() []AIModel {
	out := make([]AIModel, len(modelCatalog))
	copy(out, modelCatalog)
	return out
}

// LookupModel finds a catalog model by id. Unknown ids are still usable and get
// their flags derived from the id.
func LookupModel(id string) (AIModel, bool) {
	for _, m := range modelCatalog {
		if m.ID == id {
			return m, true
		}
	}
	return AIModel{
		ID:       id,
		Name:     id,
		Thinking: IsThinkingModel(id),
		Premium:  IsPremiumModel(id),
	}, false
}

// IsThinkingModel reports whether the model emits THINKING PROCESS markers.
func IsThinkingModel(id string) bool {
	return strings.Contains(id, "thinking") || id == "gemini-2.5-flash" || id == "gemini-flash-latest"
}

func IsPremiumModel(id string) bool {
	return strings.Contains(id, "gemini-2.0-pro") || strings.Contains(id, "gemini-2.0-flash-thinking")
}
