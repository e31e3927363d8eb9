package inference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

var (
	ErrNoCandidates = errors.New("no candidates returned")
	ErrNoText       = errors.New("first candidate has no text")
)

// BlockedError reports that the request was rejected by content moderation.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "inference blocked: " + e.Reason
}

// FirstText maps the result of a GenerateContent call to the first
// candidate's first text part. The order of checks matters: a block always
// wins over an empty candidate list.
func FirstText(resp *genai.GenerateContentResponse, err error) (string, error) {
	if err != nil {
		var be *genai.BlockedError
		if errors.As(err, &be) {
			return "", blockedFrom(be)
		}
		return "", fmt.Errorf("gemini: %w", err)
	}
	if resp == nil {
		return "", ErrNoCandidates
	}
	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != genai.BlockReasonUnspecified {
		return "", &BlockedError{Reason: pf.BlockReason.String()}
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 {
		return "", ErrNoText
	}
	t, ok := c.Content.Parts[0].(genai.Text)
	if !ok || strings.TrimSpace(string(t)) == "" {
		return "", ErrNoText
	}
	return string(t), nil
}

func blockedFrom(be *genai.BlockedError) *BlockedError {
	switch {
	case be.PromptFeedback != nil && be.PromptFeedback.BlockReason != genai.BlockReasonUnspecified:
		return &BlockedError{Reason: be.PromptFeedback.BlockReason.String()}
	case be.Candidate != nil:
		return &BlockedError{Reason: be.Candidate.FinishReason.String()}
	}
	return &BlockedError{Reason: be.Error()}
}

// Outcome is the metrics label for an inference error.
func Outcome(err error) string {
	var be *BlockedError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &be):
		return "blocked"
	case errors.Is(err, ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, ErrNoText):
		return "no_text"
	}
	return "error"
}
