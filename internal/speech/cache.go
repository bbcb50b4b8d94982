package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CacheEngine is a decorator that keeps rendered clips on disk, keyed by
// engine, voice, rate and text. Hits never reach the inner engine.
type CacheEngine struct {
	inner Engine
	dir   string
}

// WithCache wraps an Engine with an on-disk clip cache rooted at dir.
func WithCache(e Engine, dir string) (*CacheEngine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache: %w", err)
	}
	return &CacheEngine{inner: e, dir: dir}, nil
}

func (c *CacheEngine) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	key := c.key(req)
	if path, format, ok := c.lookup(key); ok {
		return &Audio{Path: path, Format: format, Cached: true}, nil
	}

	audio, err := c.inner.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	if audio.Path != "" {
		return audio, nil
	}

	path := filepath.Join(c.dir, key+"."+audio.Format)
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("write audio cache: %w", err)
	}
	if _, err := tmp.Write(audio.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write audio cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write audio cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write audio cache: %w", err)
	}
	audio.Path = path
	return audio, nil
}

func (c *CacheEngine) Name() string {
	return c.inner.Name()
}

// Dir returns the cache directory.
func (c *CacheEngine) Dir() string {
	return c.dir
}

// Purge removes every cached clip.
func (c *CacheEngine) Purge() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read audio cache: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("purge audio cache: %w", err)
		}
	}
	return nil
}

func (c *CacheEngine) key(req Request) string {
	h := sha256.New()
	h.Write([]byte(c.inner.Name()))
	h.Write([]byte{0})
	h.Write([]byte(req.Voice.Key))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(req.Rate, 'f', 2, 64)))
	h.Write([]byte{0})
	h.Write([]byte(req.Text))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CacheEngine) lookup(key string) (path, format string, ok bool) {
	for _, f := range []string{FormatMP3, FormatWAV} {
		p := filepath.Join(c.dir, key+"."+f)
		if info, err := os.Stat(p); err == nil && info.Size() > 0 {
			return p, f, true
		}
	}
	return "", "", false
}
