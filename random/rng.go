package random

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// byteStream generates a deterministic byte sequence from a server/client
// seed pair using HMAC-SHA256. Each 32-byte round hashes the message
// "clientSeed:round" keyed by the server seed, so the stream is a pure
// function of the two seeds and fully replayable for verification.
type byteStream struct {
	serverSeed string
	clientSeed string
	round      int
	cursor     int
	buffer     [32]byte
}

func newByteStream(serverSeed, clientSeed string) *byteStream {
	return &byteStream{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		cursor:     32, // force a round on first Next
	}
}

func (bs *byteStream) next() byte {
	if bs.cursor >= 32 {
		h := hmac.New(sha256.New, []byte(bs.serverSeed))
		fmt.Fprintf(h, "%s:%d", bs.clientSeed, bs.round)
		copy(bs.buffer[:], h.Sum(nil))
		bs.round++
		bs.cursor = 0
	}
	b := bs.buffer[bs.cursor]
	bs.cursor++
	return b
}

// float consumes 4 bytes and maps them to [0, 1).
func (bs *byteStream) float() float64 {
	b0 := bs.next()
	b1 := bs.next()
	b2 := bs.next()
	b3 := bs.next()

	return float64(b0)/256.0 +
		float64(b1)/(256.0*256.0) +
		float64(b2)/(256.0*256.0*256.0) +
		float64(b3)/(256.0*256.0*256.0*256.0)
}

// NewRNG derives the deterministic RNG function for a seed pair. Repeated
// calls with the same seeds yield identical sequences.
func NewRNG(serverSeed, clientSeed string) func() float64 {
	bs := newByteStream(serverSeed, clientSeed)
	return bs.float
}

// Floats replays the first count values of the RNG stream for a seed pair.
// Used by the verification endpoint.
func Floats(serverSeed, clientSeed string, count int) []float64 {
	rng := NewRNG(serverSeed, clientSeed)
	out := make([]float64, count)
	for i := range out {
		out[i] = rng()
	}
	return out
}
