package cmd

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/s0up4200/transistor/transistor"
)

// paramPattern matches key=value and key:=json, where key may use brackets for nesting.
var paramPattern = regexp.MustCompile(`^([A-Za-z0-9_.\-]+(?:\[[A-Za-z0-9_.\-]*\])*)(:?=)(.*)$`)

// splitParams separates request paths from key=value parameters.
// key=value stores a string, key:=value stores decoded JSON, and
// episode[title]=x nests under episode.
func splitParams(tokens []string) ([]string, *transistor.Args, error) {
	var paths []string
	args := transistor.NewArgs()

	for _, token := range tokens {
		m := paramPattern.FindStringSubmatch(token)
		if m == nil {
			paths = append(paths, token)
			continue
		}

		key, op, rawValue := m[1], m[2], m[3]

		var value any = rawValue
		if op == ":=" {
			if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
				return nil, nil, fmt.Errorf("parameter %s: invalid JSON value: %w", key, err)
			}
		}

		if err := setParam(args, keyPath(key), value); err != nil {
			return nil, nil, fmt.Errorf("parameter %s: %w", key, err)
		}
	}

	return paths, args, nil
}

// keyPath turns a[b][c] into [a b c].
func keyPath(key string) []string {
	name, rest, _ := strings.Cut(key, "[")
	path := []string{name}
	if rest == "" {
		return path
	}
	for _, part := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
		path = append(path, part)
	}
	return path
}

func setParam(args *transistor.Args, path []string, value any) error {
	if len(path) == 1 {
		args.Set(path[0], value)
		return nil
	}

	existing, ok := args.Get(path[0])
	if !ok {
		nested := transistor.NewArgs()
		args.Set(path[0], nested)
		return setParam(nested, path[1:], value)
	}

	nested, ok := existing.(*transistor.Args)
	if !ok {
		return fmt.Errorf("%s is already set to a plain value", path[0])
	}
	return setParam(nested, path[1:], value)
}
