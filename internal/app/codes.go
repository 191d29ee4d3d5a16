package app

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/dkeye/spotlight/internal/domain"
)

// ErrCodeSpaceExhausted is fatal for registration: no further codes can be issued
// without breaking lifetime uniqueness.
var ErrCodeSpaceExhausted = errors.New("code space exhausted")

// DefaultMaxAttempts bounds the redraw loop of a single Issue call.
const DefaultMaxAttempts = 10000

// CodeGenerator issues codes that are unique for the process lifetime: a code
// that was ever issued is never issued again, even after its owner leaves.
// Not safe for concurrent use; the Orchestrator serializes access.
type CodeGenerator struct {
	alphabet    string
	length      int
	capacity    int
	maxAttempts int
	intn        func(int) int

	issued  map[domain.Code]struct{}
	retired map[domain.Code]struct{}
}

func NewCodeGenerator() *CodeGenerator {
	return NewCustomCodeGenerator(domain.CodeAlphabet, domain.CodeLength, rand.IntN)
}

// NewCustomCodeGenerator draws length characters from alphabet using intn.
func NewCustomCodeGenerator(alphabet string, length int, intn func(int) int) *CodeGenerator {
	capacity := math.MaxInt
	if p := math.Pow(float64(len(alphabet)), float64(length)); p < float64(math.MaxInt) {
		capacity = int(p)
	}
	return &CodeGenerator{
		alphabet:    alphabet,
		length:      length,
		capacity:    capacity,
		maxAttempts: DefaultMaxAttempts,
		intn:        intn,
		issued:      make(map[domain.Code]struct{}),
		retired:     make(map[domain.Code]struct{}),
	}
}

func (g *CodeGenerator) Issue() (domain.Code, error) {
	if len(g.issued)+len(g.retired) >= g.capacity {
		return "", ErrCodeSpaceExhausted
	}
	buf := make([]byte, g.length)
	for range g.maxAttempts {
		for i := range buf {
			buf[i] = g.alphabet[g.intn(len(g.alphabet))]
		}
		code := domain.Code(buf)
		if g.used(code) {
			continue
		}
		g.issued[code] = struct{}{}
		return code, nil
	}
	return "", ErrCodeSpaceExhausted
}

// Retire moves a live code to the retired set; unknown codes are ignored.
func (g *CodeGenerator) Retire(code domain.Code) {
	if _, ok := g.issued[code]; !ok {
		return
	}
	delete(g.issued, code)
	g.retired[code] = struct{}{}
}

func (g *CodeGenerator) used(code domain.Code) bool {
	if _, ok := g.issued[code]; ok {
		return true
	}
	_, ok := g.retired[code]
	return ok
}

// Stats reports live and retired code counts.
func (g *CodeGenerator) Stats() (live, retired, capacity int) {
	return len(g.issued), len(g.retired), g.capacity
}
