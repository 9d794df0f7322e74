// Package words supplies secret words for new Contexto rounds.
package words

import "math/rand/v2"

// MVP list; replaced by a proper lexicon once similarity scoring lands.
var secrets = []string{
	"apple", "banana", "orange", "coffee", "pizza",
	"rocket", "dragon", "winter", "garden", "ocean",
}

// Provider hands out random secret words.
type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

func (p *Provider) NextSecret() string {
	return secrets[rand.IntN(len(secrets))]
}
