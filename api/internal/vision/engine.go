// Package vision abstracts the multimodal model that looks at product photos.
package vision

import (
	"context"
	"errors"
	"strings"
)

// Image is a photo ready to be sent to a model.
type Image struct {
	Data []byte
	MIME string
}

type Engine interface {
	Name() string
	GetModel() string
	// Generate sends prompt together with img and returns the model's text answer.
	Generate(ctx context.Context, prompt string, img Image) (string, error)
}

type Engines struct {
	Gemini Engine
	OpenAI Engine
}

// Get returns the configured engine for name.
func (e *Engines) Get(name string) (Engine, error) {
	var eng Engine
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini", "google":
		eng = e.Gemini
	case "gpt", "openai":
		eng = e.OpenAI
	default:
		return nil, errors.New("unknown llm provider; use 'gemini' or 'openai'")
	}
	if eng == nil {
		return nil, errors.New("llm provider " + name + " is not configured")
	}
	return eng, nil
}
