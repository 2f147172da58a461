package answer

import (
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
)

// TestRenderPrompt_EmbedsVerbatim tests that query and context appear in
// the prompt unchanged, inside the fixed instruction template.
func TestRenderPrompt_EmbedsVerbatim(t *testing.T) {
	query := "What is the warranty period?"
	contextText := "The warranty lasts 24 months.\n\nCoverage starts at purchase."

	prompt := renderPrompt(query, contextText)

	if !strings.HasPrefix(prompt, "You are an assistant for question-answering tasks.") {
		t.Errorf("Prompt missing instruction prefix: %q", prompt)
	}
	if !strings.Contains(prompt, "Question: "+query) {
		t.Errorf("Prompt missing verbatim query: %q", prompt)
	}
	if !strings.Contains(prompt, "Context: "+contextText) {
		t.Errorf("Prompt missing verbatim context: %q", prompt)
	}
	if !strings.Contains(prompt, "just say that you don't know") {
		t.Errorf("Prompt missing the don't-know instruction: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "Answer:") {
		t.Errorf("Prompt must end with the answer cue: %q", prompt)
	}
}

// TestRenderPrompt_EmptyContext tests that an empty context still renders
// the full template; the model call is not short-circuited in code.
func TestRenderPrompt_EmptyContext(t *testing.T) {
	prompt := renderPrompt("Anything indexed?", "")

	if !strings.Contains(prompt, "Context: \nAnswer:") {
		t.Errorf("Expected empty context slot in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "Question: Anything indexed?") {
		t.Errorf("Prompt missing query: %q", prompt)
	}
}

// TestWrapGenerationError tests taxonomy matching and status propagation.
func TestWrapGenerationError(t *testing.T) {
	apiErr := &openai.Error{StatusCode: 503, Message: "overloaded"}

	err := wrapGenerationError(apiErr)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Expected ErrGenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 503") {
		t.Errorf("Expected status in error, got %q", err.Error())
	}

	plain := wrapGenerationError(errors.New("eof"))
	if !errors.Is(plain, ErrGenerationFailed) {
		t.Errorf("Expected ErrGenerationFailed for plain error, got %v", plain)
	}
}
