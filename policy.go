package seqrun

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Verdict is the outcome of evaluating an executable against a policy.
type Verdict int

const (
	ALLOW Verdict = iota
	DENY
)

// Digest is anything WithRule accepts as a SHA-256 digest: [32]byte, a hex
// string, or sha256sum formatted content as string, []byte or io.Reader.
type Digest any

var ErrDenied = errors.New("seqrun: execution denied by policy")

// PolicyError reports a denied executable. errors.Is(err, ErrDenied) holds.
type PolicyError struct {
	Verdict Verdict
	Path    string
	Digest  string
}

func (e *PolicyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("seqrun: %s %s (sha256 %s)", e.Verdict, e.Path, e.Digest)
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrDenied
}

func (v Verdict) String() string {
	switch v {
	case ALLOW:
		return "allow"
	case DENY:
		return "deny"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// ParseVerdict accepts "allow" or "deny" in any case.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return ALLOW, nil
	case "deny":
		return DENY, nil
	default:
		return ALLOW, fmt.Errorf("unknown verdict %q", s)
	}
}

type policyKey struct{}

type executionPolicy struct {
	defaultVerdict Verdict
	allow          map[[32]byte]struct{}
	deny           map[[32]byte]struct{}
}

func (p *executionPolicy) clone() *executionPolicy {
	if p == nil {
		return &executionPolicy{
			defaultVerdict: ALLOW,
			allow:          make(map[[32]byte]struct{}),
			deny:           make(map[[32]byte]struct{}),
		}
	}
	return &executionPolicy{
		defaultVerdict: p.defaultVerdict,
		allow:          maps.Clone(p.allow),
		deny:           maps.Clone(p.deny),
	}
}

func (p *executionPolicy) evaluate(digest [32]byte) Verdict {
	if p == nil {
		return ALLOW
	}
	if _, denied := p.deny[digest]; denied {
		return DENY
	}
	if _, allowed := p.allow[digest]; allowed {
		return ALLOW
	}
	return p.defaultVerdict
}

func policyFromContext(ctx context.Context) *executionPolicy {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(policyKey{}).(*executionPolicy)
	return p
}

// WithPolicy returns a derived context whose policy falls back to verdict when
// no explicit rule matches an executable's digest.
//
//	ctx := seqrun.WithPolicy(context.Background(), seqrun.DENY)
//	ctx = seqrun.WithRule(ctx, seqrun.ALLOW, sha256sumOutput)
func WithPolicy(ctx context.Context, verdict Verdict) context.Context {
	p := policyFromContext(ctx).clone()
	p.defaultVerdict = verdict
	return context.WithValue(ctx, policyKey{}, p)
}

// WithRule is WithRuleCatchError that panics on invalid input.
func WithRule(ctx context.Context, rule Verdict, sha256Digests ...Digest) context.Context {
	ctx, err := WithRuleCatchError(ctx, rule, sha256Digests...)
	if err != nil {
		panic(err)
	}
	return ctx
}

// WithRuleCatchError returns a derived context with explicit allow or deny
// entries. A later rule for the same digest replaces an earlier one.
func WithRuleCatchError(ctx context.Context, rule Verdict, sha256Digests ...Digest) (context.Context, error) {
	if len(sha256Digests) == 0 {
		return ctx, nil
	}
	if rule != ALLOW && rule != DENY {
		return ctx, fmt.Errorf("unsupported verdict %d", int(rule))
	}
	digests, err := collectDigests(sha256Digests...)
	if err != nil {
		return ctx, err
	}
	p := policyFromContext(ctx).clone()
	for _, d := range digests {
		if rule == ALLOW {
			p.allow[d] = struct{}{}
			delete(p.deny, d)
		} else {
			p.deny[d] = struct{}{}
			delete(p.allow, d)
		}
	}
	return context.WithValue(ctx, policyKey{}, p), nil
}

func collectDigests(values ...Digest) ([][32]byte, error) {
	var out [][32]byte
	for _, v := range values {
		switch d := v.(type) {
		case nil:
		case [32]byte:
			out = append(out, d)
		case []byte:
			if len(d) == sha256.Size {
				out = append(out, [32]byte(d))
				continue
			}
			parsed, err := parseSums(string(d))
			if err != nil {
				return nil, err
			}
			out = append(out, parsed...)
		case string:
			parsed, err := parseSums(d)
			if err != nil {
				return nil, err
			}
			out = append(out, parsed...)
		case io.Reader:
			data, err := io.ReadAll(d)
			if err != nil {
				return nil, err
			}
			parsed, err := parseSums(string(data))
			if err != nil {
				return nil, err
			}
			out = append(out, parsed...)
		default:
			return nil, fmt.Errorf("unsupported checksum type %T", v)
		}
	}
	return out, nil
}

// parseSums reads either a bare hex digest or sha256sum output, one digest
// per line. Blank lines and # comments are skipped; file names are ignored.
func parseSums(text string) ([][32]byte, error) {
	var out [][32]byte
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) < 2*sha256.Size {
			return nil, fmt.Errorf("line shorter than sha256 digest: %q", line)
		}
		raw, err := hex.DecodeString(line[:2*sha256.Size])
		if err != nil {
			return nil, fmt.Errorf("invalid sha256 digest %q: %w", line[:2*sha256.Size], err)
		}
		out = append(out, [32]byte(raw))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckPolicy returns a *PolicyError if the context policy denies digest.
// Without a policy in ctx everything is allowed.
func CheckPolicy(ctx context.Context, digest [32]byte, hexDigest string) error {
	p := policyFromContext(ctx)
	if p == nil || p.evaluate(digest) == ALLOW {
		return nil
	}
	return &PolicyError{Verdict: DENY, Digest: hexDigest}
}

// DigestFile returns the SHA-256 of the file at path.
func DigestFile(path string) ([32]byte, error) {
	var sum [32]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// CheckExecutable resolves task.Path the way Spawn will exec it, hashes the
// file and evaluates it against the context policy. A relative path is taken
// against task.Dir when one is set. With a policy in ctx, a path that cannot
// be resolved or read is rejected rather than passed through.
func CheckExecutable(ctx context.Context, task Task) error {
	if policyFromContext(ctx) == nil {
		return nil
	}
	resolved, err := resolveExecutable(task)
	if err != nil {
		return fmt.Errorf("seqrun: resolve %s: %w", task.Path, err)
	}
	digest, err := DigestFile(resolved)
	if err != nil {
		return fmt.Errorf("seqrun: hash %s: %w", resolved, err)
	}
	if err := CheckPolicy(ctx, digest, hex.EncodeToString(digest[:])); err != nil {
		var pe *PolicyError
		if errors.As(err, &pe) {
			pe.Path = resolved
		}
		return err
	}
	return nil
}

// resolveExecutable mirrors exec.Command: bare names go through PATH, anything
// with a separator is used as is, and the child's working directory applies
// to whatever is still relative.
func resolveExecutable(task Task) (string, error) {
	if task.Path == "" {
		return "", ErrEmptyPath
	}
	resolved := task.Path
	if filepath.Base(resolved) == resolved {
		lp, err := exec.LookPath(resolved)
		if err != nil {
			return "", err
		}
		resolved = lp
	}
	if !filepath.IsAbs(resolved) && task.Dir != "" {
		resolved = filepath.Join(task.Dir, resolved)
	}
	return resolved, nil
}
