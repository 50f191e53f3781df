package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ciciliostudio/hub/internal/api"
)

// GuidanceFor maps a failed assistant request to the message shown to
// the user. A small set of known backend failure causes gets actionable
// guidance instead of the raw error; the matching is case-insensitive
// substring matching on the backend's detail text, and all of it lives
// in this one function so a backend wording change has a single place
// to fix.
func GuidanceFor(err error) string {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("Could not reach the assistant: %v", err)
	}

	detail := strings.ToLower(apiErr.Detail)
	switch {
	case strings.Contains(detail, "provider not initialized"):
		return "The assistant has no model provider yet. Configure settings and click Initialize, then try again."
	case strings.Contains(detail, "no vectorstore is loaded"):
		return "No documents are loaded for retrieval. Load a document set before asking in RAG mode."
	case apiErr.Detail != "":
		return apiErr.Detail
	default:
		return fmt.Sprintf("The assistant request failed with status %d.", apiErr.Status)
	}
}
