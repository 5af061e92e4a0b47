package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/remote"
)

// Path is the trace endpoint.
const Path = "/api/trace"

// RemoteTracer fetches traces from the service.
type RemoteTracer struct {
	client *remote.Client
}

// NewRemoteTracer returns a tracer backed by client.
func NewRemoteTracer(client *remote.Client) *RemoteTracer {
	return &RemoteTracer{client: client}
}

func (r *RemoteTracer) Trace(ctx context.Context, req Request) (*Trace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("op", string(req.Op))
	q.Set("a", strconv.Itoa(req.A))
	q.Set("b", strconv.Itoa(req.B))

	resp, err := r.client.Get(ctx, Path, q)
	if err != nil {
		return nil, err
	}

	t := &Trace{Op: req.Op, A: req.A, B: req.B, Source: SourceRemote}
	var target any
	switch req.Op {
	case problemgen.OpAdd:
		t.Add = &AddTrace{}
		target = t.Add
	case problemgen.OpSub:
		t.Sub = &SubTrace{}
		target = t.Sub
	case problemgen.OpMul:
		t.Mul = &MulTrace{}
		target = t.Mul
	case problemgen.OpDiv:
		t.Div = &DivTrace{}
		target = t.Div
	}
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return nil, fmt.Errorf("decode %s trace: %w", req.Op, err)
	}
	return t, nil
}
