package schema

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces per-row column defaults.
type IDGenerator interface {
	Generate() (any, error)
	Type() string
}

// FromGenerator adapts g for Column.DefaultFunc.
func FromGenerator(g IDGenerator) DefaultFunc {
	return g.Generate
}

// UUIDGenerator generates UUID v4 strings.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}
	return id.String(), nil
}

func (UUIDGenerator) Type() string { return "uuid" }

// ULIDGenerator generates monotonic ULID strings.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

func (g *ULIDGenerator) Type() string { return "ulid" }

var ErrClockMovedBackwards = errors.New("clock moved backwards")

// SnowflakeGenerator generates 63-bit Snowflake ids suitable for UInt64
// columns: 41 bits of milliseconds since 2023-01-01 UTC, 10 bits of machine
// id, 12 bits of sequence.
type SnowflakeGenerator struct {
	mu        sync.Mutex
	machineID uint64
	sequence  uint64
	lastTime  uint64
	epoch     uint64
}

func NewSnowflakeGenerator(machineID uint64) *SnowflakeGenerator {
	return &SnowflakeGenerator{
		machineID: machineID & 0x3FF,
		epoch:     uint64(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()),
	}
}

func (g *SnowflakeGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := uint64(time.Now().UnixMilli())
	if now < g.lastTime {
		return nil, ErrClockMovedBackwards
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & 0xFFF
		if g.sequence == 0 {
			for now <= g.lastTime {
				now = uint64(time.Now().UnixMilli())
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return ((now - g.epoch) << 22) | (g.machineID << 12) | g.sequence, nil
}

func (g *SnowflakeGenerator) Type() string { return "snowflake" }

const nanoIDAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NanoIDGenerator generates NanoID strings.
type NanoIDGenerator struct {
	size     int
	alphabet string
}

func NewNanoIDGenerator(size int, alphabet string) *NanoIDGenerator {
	if size <= 0 {
		size = 21
	}
	if alphabet == "" {
		alphabet = nanoIDAlphabet
	}
	return &NanoIDGenerator{size: size, alphabet: alphabet}
}

func (g *NanoIDGenerator) Generate() (any, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = g.alphabet[int(b)%len(g.alphabet)]
	}
	return string(buf), nil
}

func (g *NanoIDGenerator) Type() string { return "nanoid" }

// NowGenerator stamps rows with the current UTC time, truncated to seconds.
type NowGenerator struct{}

func (NowGenerator) Generate() (any, error) {
	return time.Now().UTC().Truncate(time.Second), nil
}

func (NowGenerator) Type() string { return "now" }

// GeneratorRegistry maps generator names to generators.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]IDGenerator
}

var defaultRegistry = NewGeneratorRegistry()

// NewGeneratorRegistry returns a registry preloaded with uuid, ulid,
// snowflake, nanoid and now.
func NewGeneratorRegistry() *GeneratorRegistry {
	r := &GeneratorRegistry{generators: make(map[string]IDGenerator)}
	for _, g := range []IDGenerator{
		UUIDGenerator{},
		NewULIDGenerator(),
		NewSnowflakeGenerator(1),
		NewNanoIDGenerator(21, ""),
		NowGenerator{},
	} {
		r.Register(g.Type(), g)
	}
	return r
}

func (r *GeneratorRegistry) Register(name string, g IDGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = g
}

func (r *GeneratorRegistry) Get(name string) (IDGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	return g, ok
}

// Names lists registered generator names, sorted.
func (r *GeneratorRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFunc resolves a generator by name.
func (r *GeneratorRegistry) DefaultFunc(name string) (DefaultFunc, error) {
	g, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}
	return FromGenerator(g), nil
}

// RegisterGenerator adds g to the package registry used by struct tags and
// table specs.
func RegisterGenerator(name string, g IDGenerator) {
	defaultRegistry.Register(name, g)
}

// NamedGenerator resolves a generator from the package registry.
func NamedGenerator(name string) (DefaultFunc, error) {
	return defaultRegistry.DefaultFunc(name)
}
