package apiclient

import (
	"net/url"
	"time"
)

// Deployment represents a controller deployment.
type Deployment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Controller string    `json:"controller"`
	Trigger    string    `json:"trigger"`
	Bucket     string    `json:"bucket,omitempty"`
	KeyPrefix  string    `json:"key_prefix,omitempty"`
	Position   int       `json:"position"`
	Interval   string    `json:"interval,omitempty"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateDeploymentRequest is the request to create a deployment.
type CreateDeploymentRequest struct {
	Name       string `json:"name"`
	Controller string `json:"controller"`
	Trigger    string `json:"trigger"`
	Bucket     string `json:"bucket,omitempty"`
	KeyPrefix  string `json:"key_prefix,omitempty"`
	Position   int    `json:"position,omitempty"`
	Interval   string `json:"interval,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// UpdateDeploymentRequest is the request to update a deployment.
// Only the set fields are changed.
type UpdateDeploymentRequest struct {
	Controller *string `json:"controller,omitempty"`
	Trigger    *string `json:"trigger,omitempty"`
	Bucket     *string `json:"bucket,omitempty"`
	KeyPrefix  *string `json:"key_prefix,omitempty"`
	Position   *int    `json:"position,omitempty"`
	Interval   *string `json:"interval,omitempty"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

// ListDeployments returns all deployments. A non-empty trigger filters
// the listing to deployments bound to that trigger.
func (c *Client) ListDeployments(trigger string) ([]Deployment, error) {
	path := "/api/v1/deployments"
	if trigger != "" {
		path += "?trigger=" + url.QueryEscape(trigger)
	}
	return listResources[Deployment](c, path)
}

// GetDeployment returns a deployment by name.
func (c *Client) GetDeployment(name string) (*Deployment, error) {
	return getResource[Deployment](c, resourcePath("/api/v1/deployments/%s", name))
}

// CreateDeployment creates a new deployment.
func (c *Client) CreateDeployment(req *CreateDeploymentRequest) (*Deployment, error) {
	return createResource[Deployment](c, "/api/v1/deployments", req)
}

// UpdateDeployment updates an existing deployment.
func (c *Client) UpdateDeployment(name string, req *UpdateDeploymentRequest) (*Deployment, error) {
	return updateResource[Deployment](c, resourcePath("/api/v1/deployments/%s", name), req)
}

// DeleteDeployment deletes a deployment.
func (c *Client) DeleteDeployment(name string) error {
	return deleteResource(c, resourcePath("/api/v1/deployments/%s", name))
}

// EnableDeployment enables a deployment.
func (c *Client) EnableDeployment(name string) error {
	return c.post(resourcePath("/api/v1/deployments/%s/enable", name), nil, nil)
}

// DisableDeployment disables a deployment.
func (c *Client) DisableDeployment(name string) error {
	return c.post(resourcePath("/api/v1/deployments/%s/disable", name), nil, nil)
}
