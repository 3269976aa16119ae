package platform

import (
	"fmt"

	"github.com/Conte777/TrackFlow/internal/domain"
)

// Registry selects a Platform by name
type Registry struct {
	platforms map[domain.Platform]Platform
}

// NewRegistry creates a registry of the given platforms
func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{platforms: make(map[domain.Platform]Platform, len(platforms))}
	for _, p := range platforms {
		r.platforms[p.Kind()] = p
	}
	return r
}

// Get returns domain.ErrUnknownPlatform for unregistered platforms
func (r *Registry) Get(p domain.Platform) (Platform, error) {
	pl, ok := r.platforms[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, p)
	}
	return pl, nil
}

// Lookup parses a platform name and returns its Platform
func (r *Registry) Lookup(name string) (Platform, error) {
	p, err := domain.ParsePlatform(name)
	if err != nil {
		return nil, err
	}
	return r.Get(p)
}

// SessionToken returns the bot token that signs the platform's init data
func (r *Registry) SessionToken(p domain.Platform) (string, error) {
	pl, err := r.Get(p)
	if err != nil {
		return "", err
	}
	return pl.SessionToken()
}

// RequiresSession reports whether visits on p must carry verified init data
func (r *Registry) RequiresSession(p domain.Platform) (bool, error) {
	pl, err := r.Get(p)
	if err != nil {
		return false, err
	}
	return pl.RequiresSession(), nil
}
