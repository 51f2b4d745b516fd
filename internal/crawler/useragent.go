package crawler

import (
	"math/rand"
	"sync"
)

// defaultUserAgents is the rotation pool used when configuration does
// not supply one. Rotation mitigates naive bot blocking; it carries no
// correctness weight.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:89.0) Gecko/20100101 Firefox/89.0",
}

// AgentPool picks a User-Agent uniformly at random from a fixed list.
// The random source is injected so tests can be deterministic.
type AgentPool struct {
	mu     sync.Mutex
	agents []string
	rng    *rand.Rand
}

// NewAgentPool builds a pool over agents, falling back to the default
// rotation when agents is empty. src must not be shared with other
// users since rand.Rand is not concurrency safe.
func NewAgentPool(agents []string, src rand.Source) *AgentPool {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &AgentPool{
		agents: agents,
		rng:    rand.New(src),
	}
}

// Pick returns one User-Agent from the pool.
func (p *AgentPool) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agents[p.rng.Intn(len(p.agents))]
}
