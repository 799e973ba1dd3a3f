package chain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"
)

// HardwareMax is the largest serial number representable by legacy 32-bit
// playback hardware decoders.
const HardwareMax = 1<<32 - 1

// serialBound is the exclusive upper bound on allocated serials:
// (HardwareMax - 1) / 2, halving the range to reserve headroom for the
// decoder's high bit.
var serialBound = big.NewInt((HardwareMax - 1) / 2)

// maxDraws bounds the total number of random draws when re-drawing
// collisions, so a broken random source fails instead of spinning.
const maxDraws = 100

// SerialBound returns the exclusive upper bound on allocated serials.
func SerialBound() *big.Int {
	return new(big.Int).Set(serialBound)
}

// SerialSet maps each role to its allocated serial number. Serials are
// bound to roles by name, never by array position.
type SerialSet map[Role]*big.Int

// AllocateSerials draws four distinct serial numbers from crypto/rand.
func AllocateSerials() (SerialSet, error) {
	return AllocateSerialsWithRand(rand.Reader)
}

// AllocateSerialsWithRand draws four distinct serials below the hardware
// bound, re-drawing on collision, and assigns them to roles in ascending
// order (root lowest, target highest). The ordering is cosmetic; the
// role binding is what matters.
func AllocateSerialsWithRand(random io.Reader) (SerialSet, error) {
	roles := Order()
	seen := make(map[string]bool, len(roles))
	serials := make([]*big.Int, 0, len(roles))

	for draws := 0; len(serials) < len(roles); draws++ {
		if draws >= maxDraws {
			return nil, fmt.Errorf("could not allocate %d distinct serials in %d draws", len(roles), maxDraws)
		}

		n, err := rand.Int(random, serialBound)
		if err != nil {
			return nil, fmt.Errorf("failed to draw serial number: %w", err)
		}
		if seen[n.String()] {
			continue
		}
		seen[n.String()] = true
		serials = append(serials, n)
	}

	sort.Slice(serials, func(i, j int) bool { return serials[i].Cmp(serials[j]) < 0 })

	set := make(SerialSet, len(roles))
	for i, role := range roles {
		set[role] = serials[i]
	}
	return set, nil
}

// Validate checks the invariants on an allocated set: one serial per role,
// each non-negative, below the hardware bound, and unique.
func (s SerialSet) Validate() error {
	seen := make(map[string]Role, len(s))
	for _, role := range Order() {
		serial, ok := s[role]
		if !ok || serial == nil {
			return fmt.Errorf("no serial allocated for role %s", role)
		}
		if serial.Sign() < 0 {
			return fmt.Errorf("serial for %s is negative", role)
		}
		if serial.Cmp(serialBound) >= 0 {
			return fmt.Errorf("serial for %s exceeds hardware bound %s", role, serialBound)
		}
		if prev, dup := seen[serial.String()]; dup {
			return fmt.Errorf("duplicate serial %s for roles %s and %s", serial, prev, role)
		}
		seen[serial.String()] = role
	}
	return nil
}
