package runtime

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DebugController drives the interactive inspector that Break opens
// over an activation: a read-eval-print loop over its registers and
// upvalues, not a source-level debugger (there is no parser in this
// core to re-enter with). Nothing in this module calls Break: the
// activation driver never suspends into it.
type DebugController struct {
	out io.Writer
}

// NewDebugController creates a controller writing prompts/output to out.
func NewDebugController(out io.Writer) *DebugController {
	return &DebugController{out: out}
}

// Break starts an inspector session over act, returning when the user
// types "c" (continue) or the input stream closes.
func (d *DebugController) Break(act *Activation) error {
	rl, err := readline.New("debug> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(d.out, "break at %s:%d\n", act.proto.SourceName, act.proto.LineAt(act.pc).Line)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch cmd := strings.TrimSpace(line); {
		case cmd == "" || cmd == "c" || cmd == "continue":
			return nil
		case cmd == "locals":
			d.printLocals(act)
		case cmd == "upvals":
			d.printUpvalues(act)
		case strings.HasPrefix(cmd, "reg "):
			d.printRegister(act, strings.TrimPrefix(cmd, "reg "))
		default:
			fmt.Fprintf(d.out, "unknown command %q (try: locals, upvals, reg <n>, c)\n", cmd)
		}
	}
}

func (d *DebugController) printLocals(act *Activation) {
	for i := int64(0); i < act.regs.Len(); i++ {
		if v := act.regs.Get(i); v != nil {
			fmt.Fprintf(d.out, "r%d = %s\n", i, toString(v))
		}
	}
}

func (d *DebugController) printUpvalues(act *Activation) {
	for i, cell := range act.closure.Upvalues {
		fmt.Fprintf(d.out, "up%d = %s\n", i, toString(cell.Get()))
	}
}

func (d *DebugController) printRegister(act *Activation, arg string) {
	var idx int64
	if _, err := fmt.Sscanf(arg, "%d", &idx); err != nil {
		fmt.Fprintf(d.out, "bad register %q\n", arg)
		return
	}
	fmt.Fprintf(d.out, "r%d = %s\n", idx, toString(act.regs.Get(idx)))
}
