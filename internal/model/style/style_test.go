package style

import "testing"

func TestPromptValueLowercases(t *testing.T) {
	if got := Happy.PromptValue(); got != "happy" {
		t.Fatalf("expected happy, got %s", got)
	}
	if got := Informal.PromptValue(); got != "informal" {
		t.Fatalf("expected informal, got %s", got)
	}
}

func TestParseEmotion(t *testing.T) {
	got, ok := ParseEmotion(" sad ")
	if !ok || got != Sad {
		t.Fatalf("expected Sad, got %q ok=%v", got, ok)
	}

	got, ok = ParseEmotion("Melancholic")
	if ok {
		t.Fatal("expected unknown emotion to report ok=false")
	}
	if got != Emotion("Melancholic") {
		t.Fatalf("expected raw value passed through, got %q", got)
	}
}

func TestParseTone(t *testing.T) {
	got, ok := ParseTone("FORMAL")
	if !ok || got != Formal {
		t.Fatalf("expected Formal, got %q ok=%v", got, ok)
	}
	if _, ok := ParseTone("sarcastic"); ok {
		t.Fatal("expected unknown tone to report ok=false")
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	opts := Catalog()
	if len(opts.Emotions) != 4 || len(opts.Tones) != 2 {
		t.Fatalf("unexpected catalog sizes: %d emotions, %d tones", len(opts.Emotions), len(opts.Tones))
	}
	opts.Emotions[0] = "Bored"
	if Catalog().Emotions[0] != Happy {
		t.Fatal("catalog must not be mutable through returned slices")
	}
}
