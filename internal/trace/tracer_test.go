package trace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egelkids/egel/internal/llm"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/remote"
)

func newRemoteTracer(t *testing.T, h http.HandlerFunc) *RemoteTracer {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	rc, err := remote.New(remote.Config{BaseURL: srv.URL, Timeout: time.Second, MaxAttempts: 1})
	require.NoError(t, err)
	return NewRemoteTracer(rc)
}

func TestRemoteTracer_DecodesServiceShape(t *testing.T) {
	rt := newRemoteTracer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Path, r.URL.Path)
		q := r.URL.Query()
		var body any
		switch q.Get("op") {
		case "sub":
			body = Subtraction(52, 17)
		case "div":
			body = Division(183, 12)
		default:
			body = Addition(47, 25)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	ctx := context.Background()

	tr, err := rt.Trace(ctx, Request{Op: problemgen.OpSub, A: 52, B: 17})
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, tr.Source)
	require.NotNil(t, tr.Sub)
	assert.Equal(t, 35, tr.Sub.Result)
	assert.Equal(t, 3, *tr.Sub.Steps[1].Comp)

	tr, err = rt.Trace(ctx, Request{Op: problemgen.OpDiv, A: 183, B: 12})
	require.NoError(t, err)
	assert.Equal(t, 15, tr.Div.TotalQ)

	tr, err = rt.Trace(ctx, Request{Op: problemgen.OpAdd, A: 47, B: 25})
	require.NoError(t, err)
	assert.Equal(t, 72, tr.Add.SumValue)
}

func TestRemoteTracer_RejectsLocally(t *testing.T) {
	var calls atomic.Int32
	rt := newRemoteTracer(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	_, err := rt.Trace(context.Background(), Request{Op: problemgen.OpDiv, A: 5, B: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, calls.Load())
}

func TestRemoteTracer_BadJSON(t *testing.T) {
	rt := newRemoteTracer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err := rt.Trace(context.Background(), Request{Op: problemgen.OpMul, A: 2, B: 3})
	assert.Error(t, err)
}

type stubTracer struct {
	tr    *Trace
	err   error
	calls int
}

func (s *stubTracer) Trace(context.Context, Request) (*Trace, error) {
	s.calls++
	return s.tr, s.err
}

func TestFallback(t *testing.T) {
	log, _ := test.NewNullLogger()
	req := Request{Op: problemgen.OpAdd, A: 1, B: 2}

	failing := &stubTracer{err: remote.ErrUnavailable}
	f := NewFallback(log, failing, NewLocalTracer())
	tr, err := f.Trace(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, tr.Source)
	assert.Equal(t, 1, failing.calls)

	first := &stubTracer{tr: &Trace{Source: SourceRemote}}
	second := &stubTracer{}
	tr, err = NewFallback(log, first, second).Trace(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, tr.Source)
	assert.Zero(t, second.calls)
}

func TestFallback_AllFail(t *testing.T) {
	log, _ := test.NewNullLogger()
	a := &stubTracer{err: errors.New("a down")}
	b := &stubTracer{err: errors.New("b down")}
	_, err := NewFallback(log, a, b).Trace(context.Background(), Request{Op: problemgen.OpMul, A: 1, B: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a down")
	assert.Contains(t, err.Error(), "b down")

	_, err = NewFallback(log).Trace(context.Background(), Request{Op: problemgen.OpMul, A: 1, B: 1})
	assert.Error(t, err)
}

func TestFallback_InvalidRequestShortCircuits(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := &stubTracer{}
	_, err := NewFallback(log, s).Trace(context.Background(), Request{Op: problemgen.OpDiv, A: 1, B: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, s.calls)
}

func TestLLMTracer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"We add column by column.","steps":["7 and 5 make 12.","Write 2, carry 1.","4 and 2 and 1 make 7."]}`),
	})
	lt := NewLLMTracer(mock, DefaultExplainConfig())

	tr, err := lt.Trace(context.Background(), Request{Op: problemgen.OpAdd, A: 47, B: 25})
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, tr.Source)
	require.NotNil(t, tr.Add, "numbers come from the local trace")
	assert.Equal(t, 72, tr.Add.SumValue)
	assert.Equal(t, "We add column by column.", tr.Explanation.Summary)
	assert.Len(t, tr.Lines(), 3)

	require.Equal(t, 1, mock.CallCount())
	call, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, ExplanationSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "Problem: 47 + 25")
	assert.Contains(t, call.Messages[0].Content, `"sum_value":72`)
	assert.Contains(t, call.Messages[0].Content, "1. Ones: 7 + 5")
}

func TestLLMTracer_Errors(t *testing.T) {
	ctx := context.Background()
	req := Request{Op: problemgen.OpSub, A: 9, B: 4}

	_, err := NewLLMTracer(llm.NewMockProvider(), DefaultExplainConfig()).Trace(ctx, req)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	empty := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":"x","steps":[]}`)})
	_, err = NewLLMTracer(empty, DefaultExplainConfig()).Trace(ctx, req)
	assert.Error(t, err)

	offSchema := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"text":"hello"}`)})
	_, err = NewLLMTracer(offSchema, DefaultExplainConfig()).Trace(ctx, req)
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	m := llm.NewMockProvider()
	_, err = NewLLMTracer(m, DefaultExplainConfig()).Trace(ctx, Request{Op: problemgen.OpDiv, A: 1, B: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, m.CallCount())
}
