package reply

import (
	"fmt"

	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
)

// PromptFields holds every value substituted into the reply template.
type PromptFields struct {
	Emotion    string
	Tone       string
	Suggestion string
	History    string
	Message    string
}

// NewPromptFields builds template fields from the caller's inputs.
// Emotion and tone are lower-cased; suggestion and message are kept verbatim.
func NewPromptFields(history, message string, params style.Parameters) PromptFields {
	return PromptFields{
		Emotion:    params.Emotion.PromptValue(),
		Tone:       params.Tone.PromptValue(),
		Suggestion: params.Suggestion,
		History:    history,
		Message:    message,
	}
}

// RenderPrompt fills the reply template.
func RenderPrompt(f PromptFields) string {
	return fmt.Sprintf(`You are a helpful person assistant that is going to help generate a %s and %s response to a conversational message.
Also keep in mind the following suggestions when creating a response to the conversational message: %s
Conversation History:

%s

YOU WILL ACT AS A PERSON AND NOT AN AI
Each reply you make is going to be a direct response to the following message in the conversation: %s
`,
		f.Emotion,
		f.Tone,
		f.Suggestion,
		f.History,
		f.Message,
	)
}
