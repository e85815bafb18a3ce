package store

import (
	"math/rand"
	"sync"
	"time"
)

// pushChars sorts in ASCII order so generated keys order chronologically.
const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// PushIDGenerator produces 20-character keys: 8 characters of millisecond
// timestamp followed by 12 random characters. Keys generated within the same
// millisecond increment the random tail so ordering still holds.
type PushIDGenerator struct {
	mu       sync.Mutex
	lastTime int64
	lastRand [12]int
}

func NewPushIDGenerator() *PushIDGenerator {
	return &PushIDGenerator{}
}

func (g *PushIDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms == g.lastTime {
		for i := 11; i >= 0; i-- {
			g.lastRand[i]++
			if g.lastRand[i] < len(pushChars) {
				break
			}
			g.lastRand[i] = 0
		}
	} else {
		for i := range g.lastRand {
			g.lastRand[i] = rand.Intn(len(pushChars))
		}
	}
	g.lastTime = ms

	var id [20]byte
	for i := 7; i >= 0; i-- {
		id[i] = pushChars[ms%int64(len(pushChars))]
		ms /= int64(len(pushChars))
	}
	for i, r := range g.lastRand {
		id[8+i] = pushChars[r]
	}
	return string(id[:])
}
