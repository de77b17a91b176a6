package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/normalize"
	"github.com/abdul-hamid-achik/hitdiff/packages/override"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	transport profile.Transport
	config    *Config
	logger    *slog.Logger
}

type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
	MaxRedirects   int
	Insecure       bool
	Proxy          string
	Headers        map[string]string
	RateLimit      float64
	Logger         *slog.Logger
	// Transport replaces the HTTP client built from the fields above.
	Transport profile.Transport
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{FollowRedirect: true}
	}

	transport := cfg.Transport
	if transport == nil {
		clientOpts := []http.ClientOption{}
		if cfg.Timeout > 0 {
			clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
		}
		clientOpts = append(clientOpts, http.WithFollowRedirects(cfg.FollowRedirect))
		if cfg.MaxRedirects > 0 {
			clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, http.WithValidateSSL(false))
		}
		if cfg.Proxy != "" {
			clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
		}
		if len(cfg.Headers) > 0 {
			clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.Headers))
		}
		if cfg.RateLimit > 0 {
			clientOpts = append(clientOpts, http.WithRateLimit(cfg.RateLimit))
		}
		transport = http.NewClient(clientOpts...)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		transport: transport,
		config:    cfg,
		logger:    logger,
	}
}

// Side is one executed request of a run.
type Side struct {
	Name     string
	Method   string
	URL      string
	Response *http.Response
	Text     string
}

type Result struct {
	Profile  string
	RunID    string
	Left     *Side
	Right    *Side
	Lines    []textdiff.Line
	Stats    textdiff.Stats
	Duration time.Duration
}

// Render returns the prefixed line diff.
func (r *Result) Render() string {
	return textdiff.Render(r.Lines)
}

// Unified returns a unified diff of the two canonical texts.
func (r *Result) Unified() (string, error) {
	return textdiff.Unified(r.Left.Name, r.Right.Name, r.Left.Text+"\n", r.Right.Text+"\n")
}

func (r *Result) Changed() bool {
	return r.Stats.Changed()
}

// Compare validates and materializes both requests of p, sends them
// concurrently with the same overrides and diffs the normalized responses.
// Errors carry the profile name and the failing side.
func (r *Runner) Compare(ctx context.Context, name string, p *profile.DiffProfile, ovr *override.Set) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.logger.With("run_id", runID, "profile", name)

	if err := p.Validate(); err != nil {
		return nil, profile.Annotate(err, name, "")
	}

	m1, err := p.Req1.Materialize(ovr)
	if err != nil {
		return nil, profile.Annotate(err, name, profile.Req1)
	}
	m2, err := p.Req2.Materialize(ovr)
	if err != nil {
		return nil, profile.Annotate(err, name, profile.Req2)
	}

	left := &Side{Name: profile.Req1, Method: m1.Method, URL: m1.URL}
	right := &Side{Name: profile.Req2, Method: m2.Method, URL: m2.URL}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := r.send(gctx, log, name, left.Name, m1)
		left.Response = resp
		return err
	})
	g.Go(func() error {
		resp, err := r.send(gctx, log, name, right.Name, m2)
		right.Response = resp
		return err
	})
	if err := g.Wait(); err != nil {
		log.Debug("run failed", "error", err)
		return nil, err
	}

	for _, s := range []*Side{left, right} {
		text, err := normalize.Normalize(s.Response, &p.Res)
		if err != nil {
			return nil, profile.Annotate(err, name, s.Name)
		}
		s.Text = text
	}

	lines := textdiff.Lines(left.Text, right.Text)
	result := &Result{
		Profile:  name,
		RunID:    runID,
		Left:     left,
		Right:    right,
		Lines:    lines,
		Stats:    textdiff.Summarize(lines),
		Duration: time.Since(start),
	}

	log.Debug("run complete",
		"inserted", result.Stats.Inserted,
		"deleted", result.Stats.Deleted,
		"duration", result.Duration,
	)
	return result, nil
}

// Diff runs Compare and returns the rendered line diff.
func (r *Runner) Diff(ctx context.Context, name string, p *profile.DiffProfile, ovr *override.Set) (string, error) {
	result, err := r.Compare(ctx, name, p, ovr)
	if err != nil {
		return "", err
	}
	return result.Render(), nil
}

// Send executes a single request profile. The response is returned as
// received; Text holds its body in canonical form.
func (r *Runner) Send(ctx context.Context, name string, p *profile.RequestProfile, ovr *override.Set) (*Side, error) {
	log := r.logger.With("run_id", uuid.NewString(), "profile", name)

	m, err := p.Materialize(ovr)
	if err != nil {
		return nil, profile.Annotate(err, name, "")
	}

	side := &Side{Name: name, Method: m.Method, URL: m.URL}
	side.Response, err = r.send(ctx, log, name, "", m)
	if err != nil {
		return nil, err
	}

	side.Text, err = normalize.Body(side.Response, nil)
	if err != nil {
		return nil, profile.Annotate(err, name, "")
	}
	return side, nil
}

func (r *Runner) send(ctx context.Context, log *slog.Logger, name, side string, m *profile.Materialized) (*http.Response, error) {
	log.Debug("sending request", "side", side, "method", m.Method, "url", m.URL)

	resp, err := r.transport.Do(ctx, m.Request())
	if err != nil {
		log.Debug("request failed", "side", side, "error", err)
		return nil, &profile.Error{Kind: profile.ErrTransport, Profile: name, Side: side, Err: err}
	}

	log.Debug("response received",
		"side", side,
		"status", resp.StatusCode,
		"duration", resp.Duration,
	)
	return resp, nil
}
