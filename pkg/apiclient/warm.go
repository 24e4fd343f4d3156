package apiclient

// WarmRequest asks the daemon to warm objects through the platform cache.
type WarmRequest struct {
	Bucket      string   `json:"bucket"`
	Identifiers []string `json:"identifiers"`
}

// WarmResult reports how many warming requests were queued.
type WarmResult struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// Warm queues the named objects for cache warming. Identifiers are
// either bare keys in bucket or "otherbucket/key" references.
func (c *Client) Warm(bucket string, identifiers []string) (*WarmResult, error) {
	req := WarmRequest{Bucket: bucket, Identifiers: identifiers}

	var result WarmResult
	if err := c.post("/api/v1/prefetch/warm", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
