package navigation

import (
	"fmt"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// RootGroup is the urlkit group holding one child group per locale.
const RootGroup = "site"

const (
	RouteHome     = "home"
	RouteAbout    = "about"
	RouteProjects = "projects"
	RouteProject  = "project"
	RouteClients  = "clients"
	RouteContact  = "contact"
)

var sitePaths = map[string]string{
	RouteHome:     "/",
	RouteAbout:    "/about-us",
	RouteProjects: "/our-projects",
	RouteProject:  "/our-projects/:slug",
	RouteClients:  "/our-clients",
	RouteContact:  "/contact-us",
}

// DefaultRouteConfig lays out the public site routes under /<locale>.
func DefaultRouteConfig(baseURL string, set locale.Set) *urlkit.Config {
	children := make([]urlkit.GroupConfig, 0, 2)
	for _, loc := range set.All() {
		children = append(children, urlkit.GroupConfig{
			Name:  string(loc),
			Path:  "/" + string(loc),
			Paths: clonePaths(),
		})
	}
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    RootGroup,
				BaseURL: baseURL,
				Paths:   clonePaths(),
				Groups:  children,
			},
		},
	}
}

func clonePaths() map[string]string {
	out := make(map[string]string, len(sitePaths))
	for k, v := range sitePaths {
		out[k] = v
	}
	return out
}

// localeGroup finds the child group for loc. urlkit panics on missing
// groups, so lookups recover.
func localeGroup(manager *urlkit.RouteManager, loc locale.Locale) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("navigation: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("navigation: route group %s.%s not found", RootGroup, loc)
		}
	}()
	return manager.Group(RootGroup).Group(string(loc)), nil
}

func buildURL(group *urlkit.Group, route string, params map[string]any) (url string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			url, err = "", fmt.Errorf("navigation: route %q not found", route)
		}
	}()
	builder := group.Builder(route)
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}
