package sim

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// RNG is a provably-fair pseudo-random stream. Each draw computes
// HMAC-SHA256(serverSeed, clientSeed + ":" + nonce), takes the first four
// bytes as a big-endian uint32, and divides by 2^32. The nonce advances by
// one per draw, so the full chain is replayable by anyone holding both
// seeds. Seeds are treated as raw UTF-8 bytes; they do not have to be hex.
type RNG struct {
	serverSeed []byte
	clientSeed string
	nonce      uint64
}

// NewRNG returns a generator positioned at startNonce.
func NewRNG(serverSeed, clientSeed string, startNonce uint64) *RNG {
	return &RNG{
		serverSeed: []byte(serverSeed),
		clientSeed: clientSeed,
		nonce:      startNonce,
	}
}

// Nonce returns the number of draws consumed so far (when started at 0).
func (r *RNG) Nonce() uint64 {
	return r.nonce
}

// Float64 returns the next value in [0, 1) and advances the nonce.
func (r *RNG) Float64() float64 {
	mac := hmac.New(sha256.New, r.serverSeed)
	fmt.Fprintf(mac, "%s:%d", r.clientSeed, r.nonce)
	sum := mac.Sum(nil)
	r.nonce++
	return float64(binary.BigEndian.Uint32(sum[:4])) / float64(1<<32)
}

// IntBetween returns a uniform integer in [lo, hi], consuming one draw.
func (r *RNG) IntBetween(lo, hi int) int {
	return int(math.Floor(r.Float64()*float64(hi-lo+1))) + lo
}

// Probability returns true with probability p. The degenerate cases p<=0
// and p>=1 are answered without consuming a draw.
func (r *RNG) Probability(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Weighted pairs a candidate value with its selection weight.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice picks one option by cumulative weight, consuming exactly
// one draw. An empty option list is a caller bug and panics.
func WeightedChoice[T any](r *RNG, options []Weighted[T]) T {
	if len(options) == 0 {
		panic("sim: weighted choice over empty options")
	}
	var total float64
	for _, o := range options {
		total += o.Weight
	}
	target := r.Float64() * total
	var cum float64
	for _, o := range options {
		cum += o.Weight
		if target < cum {
			return o.Value
		}
	}
	return options[len(options)-1].Value
}

// Gaussian draws from N(mean, stddev) via Box-Muller, consuming exactly two
// draws, and clamps the result to [min, max].
func (r *RNG) Gaussian(mean, stddev, min, max float64) float64 {
	u1 := r.Float64()
	u2 := r.Float64()
	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	v := mean + z*stddev
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}

// Shuffle returns a new slice holding a Fisher-Yates permutation of xs,
// consuming len(xs)-1 draws. The input is left unchanged.
func Shuffle[T any](r *RNG, xs []T) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntBetween(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// GenerateServerSeed returns 32 bytes of OS entropy as a 64-char hex string.
func GenerateServerSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSeed returns the SHA-256 commitment of a seed as a hex string.
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
