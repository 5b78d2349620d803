package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML returns a kong resolver reading flag values from a YAML document.
// Keys are flag names; dashes and underscores are interchangeable.
//
//	prefix: v
//	tag_pattern: ^v\d
//	skip-invalid-tags: true
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding YAML configuration: %w", err)
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{
			flag.Name,
			strings.ReplaceAll(flag.Name, "-", "_"),
		} {
			if raw, ok := values[key]; ok {
				return raw, nil
			}
		}
		return nil, nil
	}

	return f, nil
}
