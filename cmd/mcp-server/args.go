package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nguyandy/erddap-mcp-demo/internal/erddap"
)

// Argument helpers accept both JSON-typed MCP arguments and the plain strings
// the REST mirror collects from query parameters. An absent key, a JSON null
// and an empty string all mean "not supplied".

func badArg(key, want string, v any) error {
	return fmt.Errorf("%w: %s must be %s, got %v", erddap.ErrInvalidArgument, key, want, v)
}

func stringArg(args map[string]any, key, def string) (string, error) {
	switch v := args[key].(type) {
	case nil:
		return def, nil
	case string:
		if v == "" {
			return def, nil
		}
		return v, nil
	default:
		return "", badArg(key, "a string", v)
	}
}

func intArg(args map[string]any, key string, def int) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return def, nil
	case float64:
		if v != float64(int(v)) {
			return 0, badArg(key, "an integer", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, badArg(key, "an integer", v)
		}
		return n, nil
	default:
		return 0, badArg(key, "an integer", v)
	}
}

func boolArg(args map[string]any, key string, def bool) (bool, error) {
	switch v := args[key].(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	case string:
		if v == "" {
			return def, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, badArg(key, "a boolean", v)
		}
		return b, nil
	default:
		return false, badArg(key, "a boolean", v)
	}
}

// floatPtrArg returns nil when key is absent. An explicit zero is returned as a value.
func floatPtrArg(args map[string]any, key string) (*float64, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	case string:
		if v == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, badArg(key, "a number", v)
		}
		return &f, nil
	default:
		return nil, badArg(key, "a number", v)
	}
}

func timeArg(args map[string]any, key string) (*time.Time, error) {
	s, err := stringArg(args, key, "")
	if err != nil || s == "" {
		return nil, err
	}
	t, err := erddap.ParseTime(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// variablesArg accepts "a", "a,b" or ["a", "b"].
func variablesArg(args map[string]any, key string) ([]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case string:
		return erddap.SplitVariables(v), nil
	case []string:
		return erddap.SplitVariables(strings.Join(v, ",")), nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, badArg(key, "a list of strings", v)
			}
			names = append(names, s)
		}
		return erddap.SplitVariables(strings.Join(names, ",")), nil
	default:
		return nil, badArg(key, "a string or list of strings", v)
	}
}
