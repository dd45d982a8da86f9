package loc

import (
	"github.com/diwise/premis-registry/pkg/premis/types"
	ed "github.com/diwise/premis-registry/pkg/premis/types/decorators"
)

// NewCopyrightStatement creates a rights statement with a copyright basis
// and a fresh UUID identifier.
func NewCopyrightStatement(status, jurisdiction string, decorators ...types.RightsStatementDecoratorFunc) types.RightsStatement {
	decorators = append(decorators, ed.Copyright(status, jurisdiction))

	return types.NewRightsStatement(types.NewUUIDIdentifier(), RightsBasisCopyright, decorators...)
}

// NewLicenseStatement creates a rights statement with a license basis
// and a fresh UUID identifier.
func NewLicenseStatement(terms string, decorators ...types.RightsStatementDecoratorFunc) types.RightsStatement {
	if terms != "" {
		decorators = append(decorators, ed.License(terms))
	}

	return types.NewRightsStatement(types.NewUUIDIdentifier(), RightsBasisLicense, decorators...)
}
