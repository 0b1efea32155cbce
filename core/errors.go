package core

import "errors"

// Error kinds named in spec §7. Propagation policy: admission and
// try_add_block surface these as booleans at the façade boundary; detailed
// kinds are logged. Per-tx failures inside commit are captured into the
// outcome cache and never returned here. Storage failures propagate and are
// expected to be fatal to the calling node.
var (
	// ErrInvalidArgument marks syntactically wrong user-supplied data.
	ErrInvalidArgument = errors.New("core: invalid argument")
	// ErrInvalidSignature marks a transaction that fails signature verification.
	ErrInvalidSignature = errors.New("core: invalid signature")
	// ErrDuplicate marks a transaction or block already known to the core.
	ErrDuplicate = errors.New("core: duplicate")
	// ErrInsufficientFunds marks a transaction whose sender cannot cover amount+fee.
	ErrInsufficientFunds = errors.New("core: insufficient funds")
	// ErrChainLink marks a block that does not extend the current top.
	ErrChainLink = errors.New("core: chain link mismatch")
	// ErrVMFailure marks a VM call that returned non-success; caught per-tx.
	ErrVMFailure = errors.New("core: vm failure")
	// ErrStorageFailure marks a KV collaborator error; fatal to the commit in progress.
	ErrStorageFailure = errors.New("core: storage failure")
	// ErrCodec marks a deserialization failure on an untrusted byte stream.
	ErrCodec = errors.New("core: codec failure")
)
