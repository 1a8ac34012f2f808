// Package codes generates the short join codes that identify rooms.
package codes

import (
	"fmt"
	"math/rand"
	"sync"
)

const (
	// CodeLength is the number of characters in a room code.
	CodeLength = 4
	// codeAlphabet omits characters that read ambiguously on a shared screen (0/O, 1/I).
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// GenerateMaxRetries bounds the search for an unused code.
	GenerateMaxRetries = 1024
)

// Generator hands out unique room codes and tracks the ones in use.
type Generator struct {
	inUse map[string]struct{}
	lock  sync.Mutex
}

// NewGenerator creates a new Generator with no codes in use.
func NewGenerator() *Generator {
	return &Generator{
		inUse: make(map[string]struct{}),
	}
}

// Generate returns a new unique code and marks it as in use.
func (g *Generator) Generate() (string, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	for attempt := 0; attempt < GenerateMaxRetries; attempt++ {
		code := randomCode()
		if _, taken := g.inUse[code]; taken {
			continue
		}
		g.inUse[code] = struct{}{}
		return code, nil
	}

	return "", fmt.Errorf("failed to generate a unique room code after %d attempts", GenerateMaxRetries)
}

// Release returns a code to the pool once its room is gone.
func (g *Generator) Release(code string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	delete(g.inUse, code)
}

// InUse reports whether a code is currently assigned.
func (g *Generator) InUse(code string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	_, taken := g.inUse[code]
	return taken
}

func randomCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
