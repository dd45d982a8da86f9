package loc

import (
	"github.com/diwise/premis-registry/pkg/premis/types"
	ed "github.com/diwise/premis-registry/pkg/premis/types/decorators"
)

// NewFileObject creates a file object with the attributes every archived
// file carries. A zero size is left out of the record.
func NewFileObject(id types.Identifier, originalName string, sizeInBytes int64, decorators ...types.ObjectDecoratorFunc) *types.Object {
	if originalName != "" {
		decorators = append(decorators, ed.OriginalName(originalName))
	}

	if sizeInBytes > 0 {
		decorators = append(decorators, ed.Size(sizeInBytes))
	}

	return types.NewObject(id, ObjectCategoryFile, decorators...)
}

// NewRepresentationObject creates a representation object tying together
// the files that make up one rendering of an intellectual entity.
func NewRepresentationObject(id types.Identifier, decorators ...types.ObjectDecoratorFunc) *types.Object {
	return types.NewObject(id, ObjectCategoryRepresentation, decorators...)
}
