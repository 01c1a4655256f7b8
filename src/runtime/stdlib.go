package runtime

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// InstallStdlib registers the base library and the coroutine/string
// tables onto g, the subset this parser-free core can exercise: print,
// type, tostring, tonumber, pairs, ipairs, next, setmetatable,
// getmetatable, rawget, rawset, rawequal, assert, error, pcall, plus
// the coroutine library (coroutine.go) and the string table
// (stringlib.go).
func InstallStdlib(g *Globals) {
	g.Register("print", stdPrint)
	g.Register("type", stdType)
	g.Register("tostring", stdToString)
	g.Register("tonumber", stdToNumber)
	g.Register("pairs", stdPairs)
	g.Register("ipairs", stdIPairs)
	g.Register("next", stdNext)
	g.Register("setmetatable", stdSetMetatable)
	g.Register("getmetatable", stdGetMetatable)
	g.Register("rawget", stdRawGet)
	g.Register("rawset", stdRawSet)
	g.Register("rawequal", stdRawEqual)
	g.Register("assert", stdAssert)
	g.Register("error", stdHostError)
	g.Register("pcall", stdPCall)

	strlib := NewTable()
	for name, fn := range stringLibrary {
		_ = strlib.Set(name, fn)
	}
	g.Set("string", strlib)
	g.Set("coroutine", coroutineLibrary())
}

func stdPrint(_ *ExecutionContext, args []Value) ([]Value, error) {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = toString(v)
	}
	for i, p := range parts {
		if i > 0 {
			fmt.Fprint(os.Stdout, "\t")
		}
		fmt.Fprint(os.Stdout, p)
	}
	fmt.Fprintln(os.Stdout)
	return nil, nil
}

func stdType(_ *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bad argument #1 to 'type' (value expected)")
	}
	return []Value{typeName(args[0])}, nil
}

func stdToString(ec *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bad argument #1 to 'tostring' (value expected)")
	}
	if meta := metamethod(args[0], "__tostring"); meta != nil {
		return ec.Call(meta, []Value{args[0]})
	}
	return []Value{toString(args[0])}, nil
}

func stdToNumber(_ *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return []Value{nil}, nil
	}
	if f, ok := toNumber(args[0]); ok {
		return []Value{f}, nil
	}
	return []Value{nil}, nil
}

func stdNext(_ *ExecutionContext, args []Value) ([]Value, error) {
	tbl, ok := args[0].(*Table)
	if !ok {
		return nil, fmt.Errorf("bad argument #1 to 'next' (table expected, got %s)", typeName(args[0]))
	}
	keys := allKeys(tbl)
	if len(keys) == 0 {
		return []Value{nil}, nil
	}
	var from Value
	if len(args) > 1 {
		from = args[1]
	}
	if from == nil {
		v, _ := tbl.Get(keys[0])
		return []Value{keys[0], v}, nil
	}
	for i, k := range keys {
		if k == toKey(from) {
			if i < len(keys)-1 {
				v, _ := tbl.Get(keys[i+1])
				return []Value{keys[i+1], v}, nil
			}
			return []Value{nil}, nil
		}
	}
	return []Value{nil}, nil
}

func allKeys(tbl *Table) []Value {
	keys := make([]Value, 0, int(tbl.Len())+len(tbl.Keys()))
	for i := int64(1); i <= tbl.Len(); i++ {
		keys = append(keys, float64(i))
	}
	for _, k := range tbl.Keys() {
		keys = append(keys, k)
	}
	return keys
}

func stdPairs(ec *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bad argument #1 to 'pairs' (table expected)")
	}
	if meta := metamethod(args[0], "__pairs"); meta != nil {
		return ec.Call(meta, []Value{args[0]})
	}
	return []Value{NewGoFunc("next", stdNext), args[0], nil}, nil
}

func stdIPairsIterator(_ *ExecutionContext, args []Value) ([]Value, error) {
	tbl := args[0].(*Table)
	i, _ := toNumber(args[1])
	i++
	v, err := tbl.Get(i)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []Value{nil}, nil
	}
	return []Value{i, v}, nil
}

func stdIPairs(_ *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bad argument #1 to 'ipairs' (table expected)")
	}
	return []Value{NewGoFunc("ipairs.next", stdIPairsIterator), args[0], float64(0)}, nil
}

func stdSetMetatable(_ *ExecutionContext, args []Value) ([]Value, error) {
	tbl, ok := args[0].(*Table)
	if !ok {
		return nil, fmt.Errorf("bad argument #1 to 'setmetatable' (table expected, got %s)", typeName(args[0]))
	}
	if tbl.Metamethod("__metatable") != nil {
		return nil, fmt.Errorf("cannot change a protected metatable")
	}
	if len(args) > 1 && args[1] != nil {
		mt, ok := args[1].(*Table)
		if !ok {
			return nil, fmt.Errorf("bad argument #2 to 'setmetatable' (nil or table expected)")
		}
		tbl.SetMetatable(mt)
	} else {
		tbl.SetMetatable(nil)
	}
	return []Value{tbl}, nil
}

func stdGetMetatable(_ *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return []Value{nil}, nil
	}
	if protected := metamethod(args[0], "__metatable"); protected != nil {
		return []Value{protected}, nil
	}
	tbl, ok := args[0].(*Table)
	if !ok || tbl.Metatable() == nil {
		return []Value{nil}, nil
	}
	return []Value{tbl.Metatable()}, nil
}

func stdRawGet(_ *ExecutionContext, args []Value) ([]Value, error) {
	tbl, ok := args[0].(*Table)
	if !ok {
		return nil, fmt.Errorf("bad argument #1 to 'rawget' (table expected, got %s)", typeName(args[0]))
	}
	v, err := tbl.Get(args[1])
	return []Value{v}, err
}

func stdRawSet(_ *ExecutionContext, args []Value) ([]Value, error) {
	tbl, ok := args[0].(*Table)
	if !ok {
		return nil, fmt.Errorf("bad argument #1 to 'rawset' (table expected, got %s)", typeName(args[0]))
	}
	if err := tbl.Set(args[1], args[2]); err != nil {
		return nil, err
	}
	return []Value{tbl}, nil
}

func stdRawEqual(_ *ExecutionContext, args []Value) ([]Value, error) {
	return []Value{args[0] == args[1]}, nil
}

func stdAssert(_ *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 || !truthy(args[0]) {
		if len(args) > 1 {
			return nil, errors.Errorf("%v", args[1])
		}
		return nil, errors.New("assertion failed!")
	}
	return args, nil
}

func stdHostError(_ *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, errors.New("")
	}
	if s, ok := args[0].(string); ok {
		return nil, errors.New(s)
	}
	return nil, fmt.Errorf("%v", args[0])
}

func stdPCall(ec *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bad argument #1 to 'pcall' (value expected)")
	}
	results, err := ec.Call(args[0], args[1:])
	if err != nil {
		return []Value{false, err.Error()}, nil
	}
	return append([]Value{true}, results...), nil
}

func coroutineLibrary() *Table {
	t := NewTable()
	_ = t.Set("create", NewGoFunc("coroutine.create", stdCoroutineCreate))
	_ = t.Set("resume", NewGoFunc("coroutine.resume", stdCoroutineResume))
	_ = t.Set("yield", NewGoFunc("coroutine.yield", stdCoroutineYield))
	_ = t.Set("status", NewGoFunc("coroutine.status", stdCoroutineStatus))
	_ = t.Set("wrap", NewGoFunc("coroutine.wrap", stdCoroutineWrap))
	return t
}

func stdCoroutineCreate(ec *ExecutionContext, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bad argument #1 to 'create' (function expected)")
	}
	co, err := ec.NewCoroutine(args[0])
	if err != nil {
		return nil, err
	}
	return []Value{co}, nil
}

func stdCoroutineResume(_ *ExecutionContext, args []Value) ([]Value, error) {
	co, ok := args[0].(*Coroutine)
	if !ok {
		return nil, fmt.Errorf("bad argument #1 to 'resume' (coroutine expected, got %s)", typeName(args[0]))
	}
	results, err := co.Resume(args[1:])
	if err != nil {
		return []Value{false, err.Error()}, nil
	}
	return append([]Value{true}, results...), nil
}

func stdCoroutineYield(ec *ExecutionContext, args []Value) ([]Value, error) {
	return ec.Yield(args)
}

func stdCoroutineStatus(_ *ExecutionContext, args []Value) ([]Value, error) {
	co, ok := args[0].(*Coroutine)
	if !ok {
		return nil, fmt.Errorf("bad argument #1 to 'status' (coroutine expected, got %s)", typeName(args[0]))
	}
	return []Value{co.Status()}, nil
}

func stdCoroutineWrap(ec *ExecutionContext, args []Value) ([]Value, error) {
	co, err := ec.NewCoroutine(args[0])
	if err != nil {
		return nil, err
	}
	wrapped := NewGoFunc("coroutine.wrap", func(_ *ExecutionContext, wargs []Value) ([]Value, error) {
		return co.Resume(wargs)
	})
	return []Value{wrapped}, nil
}
