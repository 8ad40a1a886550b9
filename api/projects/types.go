// Package projects provides access to the metadata of the Azure AI
// Foundry project an endpoint is scoped to.
package projects

// Project represents the project behind an endpoint.
type Project struct {
	// ID is the unique identifier for the project. It doubles as the
	// workspace ID in studio links.
	ID string `json:"id"`

	// Name is the human-readable name of the project.
	Name string `json:"name"`

	// Location is the Azure region hosting the project.
	Location string `json:"location,omitempty"`

	// Endpoint is the canonical endpoint URL reported by the service.
	Endpoint string `json:"endpoint,omitempty"`
}
