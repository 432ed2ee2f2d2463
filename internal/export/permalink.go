package export

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	defaultRouteName = "article"
	defaultSlugParam = "slug"
)

// permalinkResolver maps article slugs to site routes. When a go-urlkit route
// manager is configured it drives the layout; otherwise articles land under
// /articles/<slug>.
type permalinkResolver struct {
	manager   *urlkit.RouteManager
	group     string
	route     string
	slugParam string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

func newPermalinkResolver(cfg Config) (*permalinkResolver, error) {
	resolver := &permalinkResolver{
		group:      strings.TrimSpace(cfg.RouteGroup),
		route:      strings.TrimSpace(cfg.RouteName),
		slugParam:  strings.TrimSpace(cfg.SlugParam),
		groupCache: make(map[string]*urlkit.Group),
	}
	if resolver.route == "" {
		resolver.route = defaultRouteName
	}
	if resolver.slugParam == "" {
		resolver.slugParam = defaultSlugParam
	}
	if cfg.Routes != nil {
		resolver.manager = urlkit.NewRouteManager(cfg.Routes)
		if resolver.group == "" && len(cfg.Routes.Groups) > 0 {
			resolver.group = cfg.Routes.Groups[0].Name
		}
		if resolver.group == "" {
			return nil, fmt.Errorf("export: route config requires a group name")
		}
	}
	return resolver, nil
}

// Resolve returns the site-relative route for a slug.
func (r *permalinkResolver) Resolve(slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("export: permalink requires a slug")
	}
	if r == nil || r.manager == nil {
		return "/articles/" + slug, nil
	}

	group, err := r.groupForPath(r.group)
	if err != nil {
		return "", err
	}
	builder, err := r.safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}
	builder.WithParam(r.slugParam, slug)
	raw, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("export: build permalink for %q: %w", slug, err)
	}
	return routePath(raw), nil
}

// groupForPath walks dotted group paths such as "site.articles".
func (r *permalinkResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return nil, fmt.Errorf("export: invalid route group path %q", path)
	}

	current, err := r.lookupGroup(parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = r.lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func (r *permalinkResolver) lookupGroup(name string) (*urlkit.Group, error) {
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("export: route group %q not found", name)
		}
	}()
	group = r.manager.Group(name)
	return group, err
}

func (r *permalinkResolver) lookupChildGroup(parent *urlkit.Group, name string) (*urlkit.Group, error) {
	if parent == nil {
		return nil, fmt.Errorf("export: route group %q has no parent", name)
	}
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("export: route group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}

func (r *permalinkResolver) safeBuilder(group *urlkit.Group, route string) (*urlkit.Builder, error) {
	if group == nil {
		return nil, fmt.Errorf("export: urlkit group is nil")
	}
	var (
		builder *urlkit.Builder
		err     error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("export: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

// routePath strips scheme and host so output paths stay relative to the
// output directory even when the route group declares a base URL.
func routePath(raw string) string {
	if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
		raw = parsed.Path
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}
