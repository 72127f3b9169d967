package style

import "strings"

// Emotion is the feeling a generated reply should convey.
type Emotion string

const (
	Happy   Emotion = "Happy"
	Sad     Emotion = "Sad"
	Angry   Emotion = "Angry"
	Neutral Emotion = "Neutral"
)

// Tone is the formality of a generated reply.
type Tone string

const (
	Formal   Tone = "Formal"
	Informal Tone = "Informal"
)

var (
	emotions = []Emotion{Happy, Sad, Angry, Neutral}
	tones    = []Tone{Formal, Informal}
)

// Parameters controls the style of one generation request.
type Parameters struct {
	Emotion    Emotion `json:"emotion"`
	Tone       Tone    `json:"tone"`
	Suggestion string  `json:"suggestion"`
}

// PromptValue is the form substituted into the prompt template.
func (e Emotion) PromptValue() string {
	return strings.ToLower(string(e))
}

// PromptValue is the form substituted into the prompt template.
func (t Tone) PromptValue() string {
	return strings.ToLower(string(t))
}

// Options lists the selectable values for the presentation layer.
type Options struct {
	Emotions []Emotion `json:"emotions"`
	Tones    []Tone    `json:"tones"`
}

// Catalog returns the known emotions and tones in display order.
func Catalog() Options {
	return Options{
		Emotions: append([]Emotion(nil), emotions...),
		Tones:    append([]Tone(nil), tones...),
	}
}

// ParseEmotion matches raw against the known emotions, ignoring case.
// Unknown input is returned unchanged with ok=false; the generator does not reject it.
func ParseEmotion(raw string) (Emotion, bool) {
	value := strings.TrimSpace(raw)
	for _, e := range emotions {
		if strings.EqualFold(string(e), value) {
			return e, true
		}
	}
	return Emotion(value), false
}

// ParseTone matches raw against the known tones, ignoring case.
func ParseTone(raw string) (Tone, bool) {
	value := strings.TrimSpace(raw)
	for _, t := range tones {
		if strings.EqualFold(string(t), value) {
			return t, true
		}
	}
	return Tone(value), false
}
