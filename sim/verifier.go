package sim

// VerifyResult is the outcome of replaying a game's randomness chain.
type VerifyResult struct {
	Verified    bool `json:"verified"`
	TotalEvents int  `json:"totalEvents"`
}

// verifyBatchSize bounds the work done between scheduling points so that a
// long chain never monopolizes a single-threaded caller.
const verifyBatchSize = 100

// Verify replays exactly expectedEvents HMAC draws from startNonce and
// checks the committed hash against the revealed server seed. It fails if
// the hash does not match or any derived value falls outside [0, 1).
func Verify(serverSeed, clientSeed string, startNonce uint64, expectedEvents int, publishedHash string) VerifyResult {
	if HashSeed(serverSeed) != publishedHash {
		return VerifyResult{Verified: false, TotalEvents: 0}
	}

	rng := NewRNG(serverSeed, clientSeed, startNonce)
	replayed := 0
	for replayed < expectedEvents {
		batch := verifyBatchSize
		if remaining := expectedEvents - replayed; remaining < batch {
			batch = remaining
		}
		for i := 0; i < batch; i++ {
			v := rng.Float64()
			if v < 0 || v >= 1 {
				return VerifyResult{Verified: false, TotalEvents: replayed}
			}
			replayed++
		}
	}
	return VerifyResult{Verified: true, TotalEvents: replayed}
}
