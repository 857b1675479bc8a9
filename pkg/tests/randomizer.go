package tests

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// Randomizer для property-тестов. Seed пишется в лог и повторяется через
// TEST_SEED.
type Randomizer struct {
	Bool func() bool
	Intn func(n int) int
}

func NewRandomizer(t testing.TB) Randomizer {
	t.Helper()

	seed := time.Now().UnixNano()
	if v, err := strconv.ParseInt(os.Getenv("TEST_SEED"), 10, 64); err == nil {
		seed = v
	}

	t.Logf("TEST_SEED=%d", seed)

	random := rand.New(rand.NewSource(seed)) //nolint:gosec // for tests

	return Randomizer{
		Bool: func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn: random.Intn,
	}
}
