package core

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"
)

// VMCallContext carries the fields a VM invocation needs from the
// transaction and block currently being applied (spec §4.4, §6).
type VMCallContext struct {
	Tx     *Transaction
	Block  *Block
	Caller Address
	Gas    uint64
}

// ExecutionResult is what the VM adapter returns for a MESSAGE_CALL
// invocation (spec §6).
type ExecutionResult struct {
	OK      bool
	Output  []byte
	GasLeft uint64
}

// VM is the deterministic contract-execution collaborator invoked by the
// account state engine while applying a block (spec §4.4, §6). Both
// CreateContract and Call must be pure functions of their inputs so that
// every honest node reaches the same state.
type VM interface {
	CreateContract(address Address, ctx VMCallContext) (output []byte, gasLeft uint64, err error)
	Call(ctx VMCallContext) (ExecutionResult, error)
}

// baseGasCost is charged against every contract invocation before any
// contract-specific work, modeling the fixed overhead of dispatch.
const baseGasCost = 21

// EchoVM is a minimal, fully deterministic reference VM: deployed contracts
// have no real bytecode semantics, and calling one simply echoes the call's
// input data back as output. It is the default VM adapter and exercises the
// account state engine's VM-collaborator contract end to end (spec §8
// scenario 6), without depending on an external execution engine.
type EchoVM struct{}

// NewEchoVM returns the reference echo VM.
func NewEchoVM() *EchoVM { return &EchoVM{} }

func (v *EchoVM) CreateContract(address Address, ctx VMCallContext) ([]byte, uint64, error) {
	if ctx.Gas < baseGasCost {
		return nil, 0, fmt.Errorf("echo vm: out of gas")
	}
	payload, err := DecodeContractCreationPayload(ctx.Tx.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("echo vm: decode creation payload: %w", err)
	}
	return payload.InitArgs, ctx.Gas - baseGasCost, nil
}

func (v *EchoVM) Call(ctx VMCallContext) (ExecutionResult, error) {
	if ctx.Gas < baseGasCost {
		return ExecutionResult{}, fmt.Errorf("echo vm: out of gas")
	}
	return ExecutionResult{OK: true, Output: ctx.Tx.Data, GasLeft: ctx.Gas - baseGasCost}, nil
}

// WasmVM executes contract bytecode as a WebAssembly module via wasmer-go.
// Each module must export a linear memory named "memory" and a function
// "invoke(ptr, len)" that reads its call input from memory at (ptr, len) and
// writes its output back to memory, returning the output's (ptr, len) packed
// into a single i64 result: ptr in the high 32 bits, len in the low 32 bits.
type WasmVM struct {
	engine *wasmer.Engine
	store  *wasmer.Store
}

// NewWasmVM returns a VM adapter backed by a fresh wasmer engine/store pair.
func NewWasmVM() *WasmVM {
	engine := wasmer.NewEngine()
	return &WasmVM{engine: engine, store: wasmer.NewStore(engine)}
}

func (v *WasmVM) CreateContract(address Address, ctx VMCallContext) ([]byte, uint64, error) {
	payload, err := DecodeContractCreationPayload(ctx.Tx.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("wasm vm: decode creation payload: %w", err)
	}
	if _, err := wasmer.NewModule(v.store, payload.Code); err != nil {
		return nil, 0, fmt.Errorf("wasm vm: invalid module: %w", err)
	}
	return payload.InitArgs, ctx.Gas, nil
}

func (v *WasmVM) Call(ctx VMCallContext) (ExecutionResult, error) {
	module, err := wasmer.NewModule(v.store, ctx.Tx.Data)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("wasm vm: invalid module: %w", err)
	}
	importObject := wasmer.NewImportObject()
	instance, err := wasmer.NewInstance(module, importObject)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("wasm vm: instantiate: %w", err)
	}
	memory, err := instance.Exports.GetMemory("memory")
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("wasm vm: missing memory export: %w", err)
	}
	invoke, err := instance.Exports.GetFunction("invoke")
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("wasm vm: missing invoke export: %w", err)
	}

	input := ctx.Tx.Data
	data := memory.Data()
	if len(input) > len(data) {
		return ExecutionResult{}, fmt.Errorf("wasm vm: input exceeds linear memory")
	}
	copy(data, input)

	res, err := invoke(int32(0), int32(len(input)))
	if err != nil {
		return ExecutionResult{OK: false}, fmt.Errorf("wasm vm: invoke trapped: %w", err)
	}
	packed, ok := res.(int64)
	if !ok {
		return ExecutionResult{}, fmt.Errorf("wasm vm: unexpected invoke return shape")
	}
	outPtr := int32(uint64(packed) >> 32)
	outLen := int32(uint64(packed) & 0xffffffff)
	data = memory.Data()
	if int(outPtr)+int(outLen) > len(data) || outPtr < 0 || outLen < 0 {
		return ExecutionResult{}, fmt.Errorf("wasm vm: output out of bounds")
	}
	output := make([]byte, outLen)
	copy(output, data[outPtr:outPtr+outLen])

	return ExecutionResult{OK: true, Output: output, GasLeft: ctx.Gas}, nil
}
