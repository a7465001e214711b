package meetpool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"donna/internal/logger"
)

// ExhaustedMessage is returned when neither the pool nor the fallback could
// produce a link. Issue never fails harder than this string.
const ExhaustedMessage = "No Meet links available."

// FallbackGenerator provisions a fresh link when the pool is empty.
type FallbackGenerator interface {
	GenerateMeetLink(ctx context.Context) (string, error)
}

// Pool issues meeting links from a newline-delimited file, oldest first.
// Issued links are removed from the file; fallback-provisioned links are not
// written back. The mutex serializes the read-modify-write so concurrent
// requests cannot double-issue or lose a link.
type Pool struct {
	path     string
	fallback FallbackGenerator

	mu sync.Mutex
}

func New(path string, fallback FallbackGenerator) *Pool {
	return &Pool{path: path, fallback: fallback}
}

// Issue pops the oldest pooled link. An absent or empty pool falls through
// to the fallback generator; if that also yields nothing, a fixed
// human-readable failure string is returned instead of an error.
func (p *Pool) Issue(ctx context.Context) string {
	link, err := p.pop()
	if err != nil {
		logger.Error().Err(err).Str("path", p.path).Msg("error reading meet links pool")
	}
	if link != "" {
		logger.Info().Str("link", link).Msg("issued meet link from pool")
		return link
	}

	if p.fallback != nil {
		generated, err := p.fallback.GenerateMeetLink(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("meet link fallback generation failed")
		} else if generated != "" {
			logger.Info().Msg("issued meet link via fallback generation")
			return generated
		}
	}

	return ExhaustedMessage
}

// pop removes and returns the first non-blank line, rewriting the remainder
// atomically. Returns "" when the pool is absent or empty.
func (p *Pool) pop() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var links []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			links = append(links, trimmed)
		}
	}
	if len(links) == 0 {
		return "", nil
	}

	head, rest := links[0], links[1:]
	if err := p.rewrite(rest); err != nil {
		return "", fmt.Errorf("failed to persist reduced pool: %w", err)
	}

	return head, nil
}

// rewrite replaces the pool file via temp-file-and-rename so a crash cannot
// leave a half-written pool.
func (p *Pool) rewrite(links []string) error {
	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".meetpool-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	content := strings.Join(links, "\n")
	if len(links) > 0 {
		content += "\n"
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, p.path)
}

// Remaining reports how many links are left in the pool file.
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0
	}

	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
