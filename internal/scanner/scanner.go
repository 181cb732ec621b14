package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Request carries all parameters required to extract titles from one report.
type Request struct {
	Path    string
	Options map[string]string
}

// Scanner captures a single report format (TrendRadar text, HTML, etc.).
type Scanner interface {
	Name() string
	Extensions() []string
	Scan(ctx context.Context, req Request) ([]string, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
}

// ResolvePath picks the scanner claiming the file extension of path.
func (r *Registry) ResolvePath(path string) (Scanner, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range r.Names() {
		for _, claimed := range r.scanners[name].Extensions() {
			if claimed == ext {
				return r.scanners[name], nil
			}
		}
	}
	return nil, fmt.Errorf("no scanner handles %q files", ext)
}

// Names lists registered scanners in a stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
