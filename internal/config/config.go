// Package config loads the coordinator's plan: which executable to run, with
// which arguments, and under which execution policy.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"pkt.systems/seqrun"
)

var (
	ErrNoExecutable = errors.New("plan: no executable for step")
	ErrNoSteps      = errors.New("plan: no steps")
)

type Plan struct {
	Header     string `yaml:"header"`
	Executable string `yaml:"executable"`
	Dir        string `yaml:"dir,omitempty"`
	Steps      []Step `yaml:"steps"`
	Strict     bool   `yaml:"strict"`
	Capture    bool   `yaml:"capture"`
	Policy     Policy `yaml:"policy"`
}

// Step overrides Plan.Executable when Executable is set.
type Step struct {
	Announce   string `yaml:"announce"`
	Executable string `yaml:"executable,omitempty"`
	Arg        string `yaml:"arg"`
}

// Policy lists sha256 digests (hex or sha256sum lines) to allow or deny.
// An empty Default with no rules disables policy checks.
type Policy struct {
	Default string   `yaml:"default"`
	Allow   []string `yaml:"allow"`
	Deny    []string `yaml:"deny"`
}

// Default is the built-in plan: dump the grades file, then the users file.
func Default() *Plan {
	return &Plan{
		Header:     "Running as coordinator",
		Executable: "./my_cat",
		Steps: []Step{
			{Announce: "Attempting to get grades:", Arg: "data/grades.txt"},
			{Announce: "Attempting to get users:", Arg: "data/users.txt"},
		},
	}
}

// Load reads a YAML plan from path. Fields absent from the file keep their
// defaults; a steps list in the file replaces the default steps. An empty
// path returns the default plan.
func Load(path string) (*Plan, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	defer f.Close()
	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a plan from r on top of the defaults and validates it.
func Decode(r io.Reader) (*Plan, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return ErrNoSteps
	}
	for i, s := range p.Steps {
		if s.Executable == "" && p.Executable == "" {
			return fmt.Errorf("step %d: %w", i+1, ErrNoExecutable)
		}
	}
	if p.Policy.Default != "" {
		if _, err := seqrun.ParseVerdict(p.Policy.Default); err != nil {
			return fmt.Errorf("policy: %w", err)
		}
	}
	return nil
}

// Sequence converts the plan into the runner's model.
func (p *Plan) Sequence() seqrun.Sequence {
	seq := seqrun.Sequence{Header: p.Header}
	for _, s := range p.Steps {
		exe := s.Executable
		if exe == "" {
			exe = p.Executable
		}
		seq.Steps = append(seq.Steps, seqrun.Step{
			Announce: s.Announce,
			Task:     seqrun.Task{Path: exe, Args: []string{s.Arg}, Dir: p.Dir},
		})
	}
	return seq
}

// Context derives a context carrying the plan's execution policy. Without a
// policy block ctx is returned unchanged.
func (p *Plan) Context(ctx context.Context) (context.Context, error) {
	pol := p.Policy
	if pol.Default == "" && len(pol.Allow) == 0 && len(pol.Deny) == 0 {
		return ctx, nil
	}
	verdict := seqrun.ALLOW
	if pol.Default != "" {
		v, err := seqrun.ParseVerdict(pol.Default)
		if err != nil {
			return ctx, fmt.Errorf("policy: %w", err)
		}
		verdict = v
	}
	ctx = seqrun.WithPolicy(ctx, verdict)
	var err error
	for _, d := range pol.Allow {
		if ctx, err = seqrun.WithRuleCatchError(ctx, seqrun.ALLOW, d); err != nil {
			return ctx, fmt.Errorf("policy allow: %w", err)
		}
	}
	for _, d := range pol.Deny {
		if ctx, err = seqrun.WithRuleCatchError(ctx, seqrun.DENY, d); err != nil {
			return ctx, fmt.Errorf("policy deny: %w", err)
		}
	}
	return ctx, nil
}
