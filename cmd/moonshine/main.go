// Package main is the entrypoint to the moonshine core: it runs a
// compiled prototype to completion. It does not open the debug
// register inspector.
//
// There is no source parser in this module — the compiler that
// produces *proto.Prototype values is out of scope. main here runs
// the bundled self-test chunk so the binary is still runnable end to
// end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nicokruger/moonshine/src/runtime"
)

var showVersion bool

func init() {
	flag.BoolVar(&showVersion, "v", false, "show version information")
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Println("moonshine (core-only build, no source compiler)")
		return
	}

	g := runtime.NewGlobals()
	runtime.InstallStdlib(g)
	ec := runtime.NewExecutionContext(context.Background(), g)

	cl := runtime.NewClosure(selfTestProto(), nil)
	if _, err := ec.Call(cl, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
