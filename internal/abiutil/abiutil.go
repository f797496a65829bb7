// Package abiutil parses contract ABIs on first use.
package abiutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Lazy is an ABI parsed from its json on the first Get
type Lazy struct {
	once   sync.Once
	source string
	parsed abi.ABI
	err    error
}

func New(source string) *Lazy {
	return &Lazy{source: source}
}

func (l *Lazy) Get() (abi.ABI, error) {
	l.once.Do(func() {
		l.parsed, l.err = abi.JSON(strings.NewReader(l.source))
	})
	return l.parsed, l.err
}

// Pack encodes a call of method
func (l *Lazy) Pack(method string, args ...any) ([]byte, error) {
	parsed, err := l.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return parsed.Pack(method, args...)
}

// Method returns the named method
func (l *Lazy) Method(name string) (abi.Method, error) {
	parsed, err := l.Get()
	if err != nil {
		return abi.Method{}, fmt.Errorf("failed to parse abi: %w", err)
	}
	method, ok := parsed.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("method %s not found", name)
	}
	return method, nil
}
