package router

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type pathSegment struct {
	name    string
	isParam bool
}

// Param is one route segment value captured by a pattern.
type Param struct {
	Name  string
	Value string
}

// Params keeps captured values in the order their segments appear in the pattern.
type Params []Param

func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

type Pattern struct {
	index       int
	id          string
	segments    []pathSegment
	staticCount int
	patternKey  string
}

// Match names the winning route. Index is its position in the list given to New.
type Match struct {
	Index  int
	ID     string
	Params Params
}

type Router struct {
	routes []Pattern
}

func Compile(raw string) (Pattern, error) {
	cleaned := strings.Trim(path.Clean("/"+strings.TrimSpace(raw)), "/")

	parts := []string{}
	if cleaned != "" {
		parts = strings.Split(cleaned, "/")
	}

	segments := make([]pathSegment, 0, len(parts))
	patternParts := make([]string, 0, len(parts))
	normalizedIDParts := make([]string, 0, len(parts))
	seenParams := make(map[string]struct{}, len(parts))
	staticCount := 0

	for _, part := range parts {
		name, isParam, normalizedIDPart, err := parseWildcardSegment(part)
		if err != nil {
			return Pattern{}, fmt.Errorf("route %q: %w", raw, err)
		}

		if isParam {
			if _, ok := seenParams[name]; ok {
				return Pattern{}, fmt.Errorf("route %q: duplicate parameter %q", raw, name)
			}
			seenParams[name] = struct{}{}
			segments = append(segments, pathSegment{name: name, isParam: true})
			patternParts = append(patternParts, ":")
			normalizedIDParts = append(normalizedIDParts, normalizedIDPart)
			continue
		}

		segments = append(segments, pathSegment{name: part, isParam: false})
		patternParts = append(patternParts, part)
		normalizedIDParts = append(normalizedIDParts, part)
		staticCount++
	}

	return Pattern{
		id:          "/" + strings.Join(normalizedIDParts, "/"),
		segments:    segments,
		staticCount: staticCount,
		patternKey:  "/" + strings.Join(patternParts, "/"),
	}, nil
}

func MustCompile(raw string) Pattern {
	pattern, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return pattern
}

func (p Pattern) String() string {
	return p.id
}

func (p Pattern) Match(requestPath string) (Params, bool) {
	requestSegments := splitPathSegments(requestPath)
	if len(p.segments) != len(requestSegments) {
		return nil, false
	}

	params := make(Params, 0, len(p.segments)-p.staticCount)
	for idx, segment := range p.segments {
		requestValue := requestSegments[idx]
		if segment.isParam {
			params = append(params, Param{Name: segment.name, Value: requestValue})
			continue
		}
		if segment.name != requestValue {
			return nil, false
		}
	}

	return params, true
}

// New compiles patterns into a router that prefers static segments over
// parameters, then longer patterns, regardless of registration order.
func New(patterns ...string) (*Router, error) {
	if len(patterns) == 0 {
		return nil, errors.New("router needs at least one route")
	}

	routes := make([]Pattern, 0, len(patterns))
	seenPattern := make(map[string]string, len(patterns))
	for idx, raw := range patterns {
		route, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		route.index = idx
		if existing, ok := seenPattern[route.patternKey]; ok {
			return nil, fmt.Errorf("route pattern conflict: %q and %q", existing, route.id)
		}
		seenPattern[route.patternKey] = route.id
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i int, j int) bool {
		left := routes[i]
		right := routes[j]

		if left.staticCount != right.staticCount {
			return left.staticCount > right.staticCount
		}
		if len(left.segments) != len(right.segments) {
			return len(left.segments) > len(right.segments)
		}
		return left.id < right.id
	})

	return &Router{routes: routes}, nil
}

func (router *Router) Match(requestPath string) (Match, bool) {
	for _, route := range router.routes {
		params, ok := route.Match(requestPath)
		if !ok {
			continue
		}
		return Match{Index: route.index, ID: route.id, Params: params}, true
	}

	return Match{}, false
}

func parseWildcardSegment(segment string) (string, bool, string, error) {
	if strings.TrimSpace(segment) == "" {
		return "", false, "", errors.New("empty path segment")
	}

	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, "", fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, "", fmt.Errorf("invalid wildcard name %q", name)
		}

		return name, true, "[" + name + "]", nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, "", fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, "", nil
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
