package loc

import (
	"github.com/diwise/premis-registry/pkg/premis/types"
	ed "github.com/diwise/premis-registry/pkg/premis/types/decorators"
)

// NewSoftwareAgent creates a software agent with a fresh UUID identifier.
// An empty version is left out of the record.
func NewSoftwareAgent(name, version string, decorators ...types.AgentDecoratorFunc) *types.Agent {
	if version != "" {
		decorators = append(decorators, ed.AgentVersion(version))
	}

	return types.NewAgent(types.NewUUIDIdentifier(), name, AgentTypeSoftware, decorators...)
}

// NewOrganizationAgent creates an organization agent with a fresh UUID identifier.
func NewOrganizationAgent(name string, decorators ...types.AgentDecoratorFunc) *types.Agent {
	return types.NewAgent(types.NewUUIDIdentifier(), name, AgentTypeOrganization, decorators...)
}

// NewPersonAgent creates a person agent with a fresh UUID identifier.
func NewPersonAgent(name string, decorators ...types.AgentDecoratorFunc) *types.Agent {
	return types.NewAgent(types.NewUUIDIdentifier(), name, AgentTypePerson, decorators...)
}
