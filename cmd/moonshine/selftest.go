package main

import (
	"github.com/nicokruger/moonshine/src/bytecode"
	"github.com/nicokruger/moonshine/src/proto"
)

// selfTestProto hand-assembles a tiny chunk equivalent to
// print("hello from moonshine") so the binary demonstrates a full
// fetch/decode/execute pass without a source compiler to produce one.
func selfTestProto() *proto.Prototype {
	p := &proto.Prototype{SourceName: "<selftest>", Name: "main"}
	p.AddConst("print")
	p.AddConst("hello from moonshine")
	p.Code(bytecode.IABx(bytecode.GETGLOBAL, 0, 0), proto.LinePos{Line: 1})
	p.Code(bytecode.IABx(bytecode.LOADK, 1, 1), proto.LinePos{Line: 1})
	p.Code(bytecode.IABC(bytecode.CALL, 0, 2, 1), proto.LinePos{Line: 1})
	p.Code(bytecode.IABC(bytecode.RETURN, 0, 1, 0), proto.LinePos{Line: 1})
	return p
}
