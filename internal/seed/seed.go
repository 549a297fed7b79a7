// Package seed generates synthetic observations for demos and tests. It is
// deliberately decoupled from the network store API: callers decide what to
// feed where.
package seed

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"socialgraph/internal/network"
)

const usernameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces random usernames, posts and followee lists from a seeded
// RNG. A Generator is not safe for concurrent use; give each goroutine its
// own.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator for the given RNG seed. Identical seeds
// produce identical output streams.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Username returns a random 10-character alphanumeric username.
func (g *Generator) Username() string {
	var b strings.Builder
	b.Grow(10)
	for i := 0; i < 10; i++ {
		b.WriteByte(usernameAlphabet[g.rng.Intn(len(usernameAlphabet))])
	}
	return b.String()
}

// Post returns a post of 5 to 15 whitespace-separated tokens. Each token has
// a 10% chance of being an @mention of a random username.
func (g *Generator) Post() string {
	tokens := make([]string, 5+g.rng.Intn(11))
	for i := range tokens {
		if g.rng.Float64() < 0.1 {
			tokens[i] = "@" + g.Username()
		} else {
			tokens[i] = g.Username()
		}
	}
	return strings.Join(tokens, " ")
}

// Posts returns between 1 and 5 random posts.
func (g *Generator) Posts() []string {
	posts := make([]string, 1+g.rng.Intn(5))
	for i := range posts {
		posts[i] = g.Post()
	}
	return posts
}

// Followees returns between 1 and 5 random usernames.
func (g *Generator) Followees() []string {
	followees := make([]string, 1+g.rng.Intn(5))
	for i := range followees {
		followees[i] = g.Username()
	}
	return followees
}

// Seed fills the store with usersPerMonth synthetic observations for each of
// the months preceding now (the current month first). Months are seeded
// concurrently, one goroutine per month; the store's per-period locking makes
// that contention-free. Returns the inserted usernames grouped in month
// order, newest month first. The result is deterministic for a fixed seed.
func Seed(ctx context.Context, store *network.Store, months, usersPerMonth int, now time.Time, seed int64) ([]string, error) {
	perMonth := make([][]string, months)

	g, ctx := errgroup.WithContext(ctx)
	for m := 0; m < months; m++ {
		m := m
		g.Go(func() error {
			gen := NewGenerator(seed + int64(m))
			at := now.AddDate(0, 0, -30*m)
			names := make([]string, 0, usersPerMonth)
			for i := 0; i < usersPerMonth; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				username := gen.Username()
				store.AddUser(username, at, gen.Followees(), gen.Posts())
				names = append(names, username)
			}
			perMonth[m] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, names := range perMonth {
		all = append(all, names...)
	}
	return all, nil
}
