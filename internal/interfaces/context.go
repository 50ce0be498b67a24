package interfaces

import (
	"copyhelper-cli/internal/editor"
	"copyhelper-cli/pkg/models"
)

// ContextLoader builds the editor snapshot a request points at
type ContextLoader interface {
	// Load returns the editor context described by the request's snapshot,
	// notebook or file inputs. A request with no inputs yields editor.NoContext.
	Load(request *models.CopyRequest) (editor.Context, error)
}
