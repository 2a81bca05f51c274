package resolver

import "fmt"

// InvalidAddressFormatError the input is neither a 40-hex-digit literal nor
// a resolvable name.
type InvalidAddressFormatError struct {
	Input string
}

func (e *InvalidAddressFormatError) Error() string {
	return fmt.Sprintf("invalid address format: %q", e.Input)
}

// NameNotFoundError name resolution completed but yielded no bound address
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("name not found: %q", e.Name)
}

// NameResolutionTransportError the name-resolution call itself failed
type NameResolutionTransportError struct {
	Name string
	Err  error
}

func (e *NameResolutionTransportError) Error() string {
	return fmt.Sprintf("name resolution failed for %q: %v", e.Name, e.Err)
}

func (e *NameResolutionTransportError) Unwrap() error { return e.Err }

// ChainReadError an RPC or contract-call failure. Fatal to the whole
// request; never retried internally.
type ChainReadError struct {
	Op  string
	Err error
}

func (e *ChainReadError) Error() string {
	return fmt.Sprintf("chain read failed (%s): %v", e.Op, e.Err)
}

func (e *ChainReadError) Unwrap() error { return e.Err }
