package render

import (
	"context"
	"fmt"

	"github.com/egelkids/egel/internal/remote"
)

// Path is the rendering endpoint.
const Path = "/api/render"

// Diagram is a rendered SVG.
type Diagram struct {
	SVG    []byte
	Params Params
	Cached bool
}

// Renderer produces diagrams.
type Renderer interface {
	Render(ctx context.Context, p Params) (*Diagram, error)
}

// Client renders diagrams through the remote service.
type Client struct {
	remote *remote.Client
}

// NewClient returns a Client using rc.
func NewClient(rc *remote.Client) *Client {
	return &Client{remote: rc}
}

// Render validates p locally, then fetches the SVG. Invalid params never
// reach the service.
func (c *Client) Render(ctx context.Context, p Params) (*Diagram, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.remote.Get(ctx, Path, p.Query())
	if err != nil {
		return nil, fmt.Errorf("render %s %d %d: %w", p.Op, p.A, p.B, err)
	}
	return &Diagram{SVG: resp.Body, Params: p, Cached: resp.Cached}, nil
}
