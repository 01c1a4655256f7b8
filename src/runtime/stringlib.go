package runtime

import (
	"fmt"
	"strings"
)

// stringLibrary is the mapping of method names consulted whenever a
// string value is indexed (e.g. s:upper()), trimmed to the subset a
// parser/compiler-free core can exercise directly.
var stringLibrary = map[string]*GoFunc{
	"len":   NewGoFunc("string.len", stdStringLen),
	"upper": NewGoFunc("string.upper", stdStringUpper),
	"lower": NewGoFunc("string.lower", stdStringLower),
	"sub":   NewGoFunc("string.sub", stdStringSub),
	"byte":  NewGoFunc("string.byte", stdStringByte),
	"rep":   NewGoFunc("string.rep", stdStringRep),
}

// indexString implements GETTABLE/SELF when the source is a string:
// consult the string library by key name.
func (ec *ExecutionContext) indexString(s string, key Value) (Value, error) {
	name, ok := key.(string)
	if !ok {
		return nil, nil
	}
	fn, ok := stringLibrary[name]
	if !ok {
		return nil, nil
	}
	return fn, nil
}

func stdStringLen(_ *ExecutionContext, args []Value) ([]Value, error) {
	s, err := argString(args, 0, "string.len")
	if err != nil {
		return nil, err
	}
	return []Value{float64(len(s))}, nil
}

func stdStringUpper(_ *ExecutionContext, args []Value) ([]Value, error) {
	s, err := argString(args, 0, "string.upper")
	if err != nil {
		return nil, err
	}
	return []Value{strings.ToUpper(s)}, nil
}

func stdStringLower(_ *ExecutionContext, args []Value) ([]Value, error) {
	s, err := argString(args, 0, "string.lower")
	if err != nil {
		return nil, err
	}
	return []Value{strings.ToLower(s)}, nil
}

func stdStringSub(_ *ExecutionContext, args []Value) ([]Value, error) {
	s, err := argString(args, 0, "string.sub")
	if err != nil {
		return nil, err
	}
	i, j := 1, len(s)
	if len(args) > 1 {
		if f, ok := toNumber(args[1]); ok {
			i = int(f)
		}
	}
	if len(args) > 2 {
		if f, ok := toNumber(args[2]); ok {
			j = int(f)
		}
	}
	i, j = normalizeRange(i, j, len(s))
	if i > j {
		return []Value{""}, nil
	}
	return []Value{s[i-1 : j]}, nil
}

func stdStringByte(_ *ExecutionContext, args []Value) ([]Value, error) {
	s, err := argString(args, 0, "string.byte")
	if err != nil {
		return nil, err
	}
	i := 1
	if len(args) > 1 {
		if f, ok := toNumber(args[1]); ok {
			i = int(f)
		}
	}
	i, _ = normalizeRange(i, i, len(s))
	if i < 1 || i > len(s) {
		return nil, nil
	}
	return []Value{float64(s[i-1])}, nil
}

func stdStringRep(_ *ExecutionContext, args []Value) ([]Value, error) {
	s, err := argString(args, 0, "string.rep")
	if err != nil {
		return nil, err
	}
	n := 0
	if len(args) > 1 {
		if f, ok := toNumber(args[1]); ok {
			n = int(f)
		}
	}
	if n <= 0 {
		return []Value{""}, nil
	}
	return []Value{strings.Repeat(s, n)}, nil
}

func argString(args []Value, idx int, fname string) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("bad argument #%d to '%s' (string expected, got no value)", idx+1, fname)
	}
	s, ok := args[idx].(string)
	if !ok {
		return "", fmt.Errorf("bad argument #%d to '%s' (string expected, got %s)", idx+1, fname, typeName(args[idx]))
	}
	return s, nil
}

// normalizeRange converts Lua-style 1-based (possibly negative,
// counted from the end) start/end indices into clamped 1-based bounds.
func normalizeRange(i, j, length int) (int, int) {
	if i < 0 {
		i = length + i + 1
	}
	if j < 0 {
		j = length + j + 1
	}
	if i < 1 {
		i = 1
	}
	if j > length {
		j = length
	}
	return i, j
}
