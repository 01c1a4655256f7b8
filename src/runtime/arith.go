package runtime

import (
	"fmt"
	"math"
)

// metaNames maps each arithmetic opcode to the metamethod consulted
// when an operand isn't numeric.
var metaNames = map[string]string{
	"ADD": "__add", "SUB": "__sub", "MUL": "__mul", "DIV": "__div",
	"MOD": "__mod", "POW": "__pow", "UNM": "__unm", "CONCAT": "__concat",
}

// arith evaluates a binary arithmetic opcode, falling back to a
// metamethod when either operand isn't numeric. UNM is binary-shaped
// here with rval unused.
func (ec *ExecutionContext) arith(op string, lval, rval Value) (Value, error) {
	if op == "UNM" {
		if f, ok := toNumber(lval); ok {
			return -f, nil
		}
		return ec.delegateArith(op, lval, lval)
	}
	lf, lok := toNumber(lval)
	rf, rok := toNumber(rval)
	if lok && rok {
		switch op {
		case "ADD":
			return lf + rf, nil
		case "SUB":
			return lf - rf, nil
		case "MUL":
			return lf * rf, nil
		case "DIV":
			return lf / rf, nil
		case "MOD":
			return math.Mod(lf, rf), nil
		case "POW":
			return math.Pow(lf, rf), nil
		}
	}
	return ec.delegateArith(op, lval, rval)
}

// delegateArith consults lval's then rval's metatable for the
// metamethod matching op, erroring with Lua's standard "attempt to
// perform arithmetic" message if neither has one.
func (ec *ExecutionContext) delegateArith(op string, lval, rval Value) (Value, error) {
	name := metaNames[op]
	if meta := metamethod(lval, name); meta != nil {
		return firstResult(ec.Call(meta, []Value{lval, rval}))
	}
	if meta := metamethod(rval, name); meta != nil {
		return firstResult(ec.Call(meta, []Value{rval, lval}))
	}
	bad := lval
	if _, ok := toNumber(lval); ok {
		bad = rval
	}
	return nil, fmt.Errorf("attempt to perform arithmetic on a %s value", typeName(bad))
}

func firstResult(vals []Value, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return vals[0], nil
}

// concat implements CONCAT's left-to-right fold: adjacent numeric or
// string operands coerce and join directly; anything else delegates
// to __concat.
func (ec *ExecutionContext) concat(lval, rval Value) (Value, error) {
	lok := isNumeric(lval) && !isBool(lval)
	rok := isNumeric(rval) && !isBool(rval)
	if _, isStr := lval.(string); isStr {
		lok = true
	}
	if _, isStr := rval.(string); isStr {
		rok = true
	}
	if lok && rok {
		return toString(lval) + toString(rval), nil
	}
	name := metaNames["CONCAT"]
	if meta := metamethod(lval, name); meta != nil {
		return firstResult(ec.Call(meta, []Value{lval, rval}))
	}
	if meta := metamethod(rval, name); meta != nil {
		return firstResult(ec.Call(meta, []Value{rval, lval}))
	}
	bad := lval
	if lok {
		bad = rval
	}
	return nil, fmt.Errorf("attempt to concatenate a %s value", typeName(bad))
}

func isBool(v Value) bool { _, ok := v.(bool); return ok }

// eq implements EQ: same dynamic type required; tables fall through
// to __eq only when they are not already pointer-identical.
func (ec *ExecutionContext) eq(lval, rval Value) (bool, error) {
	if typeName(lval) != typeName(rval) {
		return false, nil
	}
	switch tl := lval.(type) {
	case nil:
		return true, nil
	case bool:
		return tl == rval.(bool), nil
	case float64:
		return tl == rval.(float64), nil
	case string:
		return tl == rval.(string), nil
	case *Table:
		tr := rval.(*Table)
		if tl == tr {
			return true, nil
		}
		meta := tl.Metamethod("__eq")
		if meta == nil {
			meta = tr.Metamethod("__eq")
		}
		if meta == nil {
			return false, nil
		}
		res, err := ec.Call(meta, []Value{lval, rval})
		if err != nil {
			return false, err
		}
		return len(res) > 0 && truthy(res[0]), nil
	default:
		return lval == rval, nil
	}
}

// le implements the LE opcode: two numeric operands (or two strings)
// compare directly; otherwise __le is consulted only when both
// operands share a kind and aren't already identical, and any other
// pair is an "attempt to compare" error (LT, per the activation
// driver, is wired to this same helper rather than a separate __lt
// lookup).
func (ec *ExecutionContext) le(lval, rval Value) (bool, error) {
	if lf, ok := toNumber(lval); ok {
		if rf, ok := toNumber(rval); ok {
			return lf <= rf, nil
		}
	}
	if ls, ok := lval.(string); ok {
		if rs, ok := rval.(string); ok {
			return ls <= rs, nil
		}
	}
	if typeName(lval) == typeName(rval) && lval != rval {
		if meta := metamethod(lval, "__le"); meta != nil {
			return boolResult(ec.Call(meta, []Value{lval, rval}))
		}
		if meta := metamethod(rval, "__le"); meta != nil {
			return boolResult(ec.Call(meta, []Value{rval, lval}))
		}
	}
	return false, fmt.Errorf("attempt to compare %s with %s", typeName(lval), typeName(rval))
}

func boolResult(vals []Value, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return len(vals) > 0 && truthy(vals[0]), nil
}
