// Package bazel queries the build graph and lifts target edges to
// top-level package edges.
package bazel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrQueryFailed indicates the query tool exited non-zero or produced
// output that could not be decoded.
var ErrQueryFailed = errors.New("build graph query failed")

// DefaultBinary is the query tool used when none is configured.
const DefaultBinary = "bazelisk"

// defaultCacheSize bounds memoised query results per run.
const defaultCacheSize = 512

// Target is one target in a query result.
type Target struct {
	Name    string   `json:"name"`
	Rule    string   `json:"rule"`
	Tag     []string `json:"tag,omitempty"`
	Sources []string `json:"sources,omitempty"`
	Deps    []string `json:"deps,omitempty"`
}

// Result is the decoded output of a query.
type Result struct {
	Target []Target `json:"target"`
}

// Executor runs an external command and returns its stdout. Errors should
// carry the command's diagnostic output.
type Executor interface {
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// execExecutor runs commands with os/exec.
type execExecutor struct{}

func (execExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Querier runs build graph queries from a workspace root. Results are
// memoised per query expression for the life of the Querier.
type Querier struct {
	workspace string
	binary    string
	exec      Executor
	cache     *lru.Cache[string, *Result]
}

// Option configures a Querier.
type Option func(*querierOptions)

type querierOptions struct {
	exec      Executor
	cacheSize int
}

// WithExecutor replaces the command runner (used by tests).
func WithExecutor(e Executor) Option {
	return func(o *querierOptions) { o.exec = e }
}

// WithCacheSize bounds the number of memoised query results.
func WithCacheSize(n int) Option {
	return func(o *querierOptions) { o.cacheSize = n }
}

// NewQuerier creates a Querier running binary in workspace.
func NewQuerier(workspace, binary string, opts ...Option) (*Querier, error) {
	o := querierOptions{exec: execExecutor{}, cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if binary == "" {
		binary = DefaultBinary
	}
	if o.cacheSize <= 0 {
		o.cacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, *Result](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	return &Querier{
		workspace: workspace,
		binary:    binary,
		exec:      o.exec,
		cache:     cache,
	}, nil
}

// Query runs `<binary> query --output=json <expr>`.
func (q *Querier) Query(ctx context.Context, expr string) (*Result, error) {
	if cached, ok := q.cache.Get(expr); ok {
		return cached, nil
	}

	out, err := q.exec.Output(ctx, q.workspace, q.binary, "query", "--output=json", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrQueryFailed, expr, err)
	}

	var res Result
	if len(bytes.TrimSpace(out)) > 0 {
		if err := json.Unmarshal(out, &res); err != nil {
			return nil, fmt.Errorf("%w: %s: parsing JSON output: %v", ErrQueryFailed, expr, err)
		}
	}
	q.cache.Add(expr, &res)
	return &res, nil
}

// Deps returns the transitive dependencies of target.
func (q *Querier) Deps(ctx context.Context, target string) (*Result, error) {
	return q.Query(ctx, fmt.Sprintf("deps(%s)", target))
}

// RDeps returns the targets within universe that depend on target.
func (q *Querier) RDeps(ctx context.Context, universe, target string) (*Result, error) {
	return q.Query(ctx, fmt.Sprintf("rdeps(%s, %s)", universe, target))
}
