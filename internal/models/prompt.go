package models

// SystemPrompt is an operator-editable instruction sent to the completion
// model as the "system" message. Prompts live in the record store so AI
// behavior can be tuned without a deploy; the AI service falls back to a
// hardcoded default when none is active.
type SystemPrompt struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Prompt          string `json:"prompt"`
	OutputStructure string `json:"output_structure,omitempty"`
	Active          bool   `json:"active"`
}

// SystemPromptInput is the body of POST/PUT /api/system-prompts.
type SystemPromptInput struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Prompt          string `json:"prompt" binding:"required"`
	OutputStructure string `json:"output_structure"`
	Active          bool   `json:"active"`
}
