package runtime

import (
	"fmt"
	"regexp"
	"strconv"
)

// numericStringPattern is the floating-point pattern used for
// numeric-string coercion.
var numericStringPattern = regexp.MustCompile(`^[-+]?[0-9]*\.?([0-9]+([eE][-+]?[0-9]+)?)?$`)

// Value is any value a register, upvalue cell, or table slot can hold:
// nil, bool, float64, string, *Table, a callable (*Closure, *GoFunc),
// or a *Coroutine.
type Value = any

// isNumeric reports whether v is a number, or a string whose textual
// form matches the numeric-string pattern.
func isNumeric(v Value) bool {
	switch tv := v.(type) {
	case float64:
		return true
	case string:
		if tv == "" || tv == "-" || tv == "+" || tv == "." {
			return false
		}
		return numericStringPattern.MatchString(tv)
	default:
		return false
	}
}

// toNumber parses v as a float under the same pattern isNumeric uses.
// ok is false if v is not numeric; callers must check isNumeric (or ok)
// before trusting the result.
func toNumber(v Value) (float64, bool) {
	switch tv := v.(type) {
	case float64:
		return tv, true
	case string:
		if !isNumeric(tv) {
			return 0, false
		}
		f, err := strconv.ParseFloat(tv, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// truthy is false iff v is nil or boolean false; everything else,
// including 0 and "", is truthy.
func truthy(v Value) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	default:
		return true
	}
}

// typeName names v's dynamic type the way error messages report it.
func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Table:
		return "table"
	case *Closure, *GoFunc, *Activation:
		return "function"
	case *Coroutine:
		return "thread"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// toKey normalizes a value for use as a table's hash-part key. Numbers
// and strings key by value; every other value keys by its own
// identity, which for Go's comparable pointer/interface types is
// exactly map-key equality already, so this is the identity function.
// Nil keys are rejected by the Table methods before reaching this.
func toKey(v Value) any { return v }

// toString formats v for CONCAT, string coercion, and tostring(),
// without consulting __tostring (that requires an ExecutionContext and
// lives in stdToString).
func toString(v Value) string {
	switch tv := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return formatNumber(tv)
	case string:
		return tv
	case *Table:
		return fmt.Sprintf("table: %p", tv)
	case *Closure:
		return tv.String()
	case *GoFunc:
		return tv.String()
	default:
		return fmt.Sprintf("%v", tv)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
