package handle

import "net/http"

const version = "1.0"

type healthResponse struct {
	Status       string   `json:"status"`
	Version      string   `json:"version"`
	Engine       string   `json:"engine,omitempty"`
	Model        string   `json:"model,omitempty"`
	Dependencies []string `json:"dependencies"`
}

func (h *Handle) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Version:      version,
		Engine:       h.opts.Engine,
		Model:        h.opts.Model,
		Dependencies: []string{"net/http", engineLibrary(h.opts.Engine)},
	})
}

func engineLibrary(engine string) string {
	switch engine {
	case "openai":
		return "go-openai"
	default:
		return "generative-ai-go"
	}
}
