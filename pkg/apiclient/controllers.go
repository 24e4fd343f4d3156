package apiclient

// Controller describes a registered microcontroller.
type Controller struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListControllers returns the registered controllers.
func (c *Client) ListControllers() ([]Controller, error) {
	return listResources[Controller](c, "/api/v1/controllers")
}

// GetController returns a controller by name.
func (c *Client) GetController(name string) (*Controller, error) {
	return getResource[Controller](c, resourcePath("/api/v1/controllers/%s", name))
}
