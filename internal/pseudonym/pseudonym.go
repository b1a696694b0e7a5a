// Package pseudonym replaces participant names in standings output so that
// it can be shared without naming anyone.
package pseudonym

import (
	"fmt"
	"standings/internal/standings"
	"strings"
	"sync"

	"github.com/mazen160/go-random"
)

// Strategy picks the replacement for a name. Names that share a sort key
// must be given the same alias for the lifetime of the strategy.
type Strategy interface {
	Alias(name string) (string, error)
}

// Random gives every distinct person a random alias, remembered for as long
// as the Random is alive.
type Random struct {
	mutex   sync.Mutex
	aliases map[string]string
	taken   map[string]struct{}
}

const aliasLength = 6

func NewRandom() *Random {
	return &Random{
		aliases: map[string]string{},
		taken:   map[string]struct{}{},
	}
}

func (r *Random) Alias(name string) (string, error) {
	key := standings.SortKey(name)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if alias, ok := r.aliases[key]; ok {
		return alias, nil
	}
	for {
		code, err := random.String(aliasLength)
		if err != nil {
			return "", fmt.Errorf("generate alias: %w", err)
		}
		alias := "Participant " + strings.ToUpper(code)
		if _, ok := r.taken[alias]; ok {
			continue
		}
		r.taken[alias] = struct{}{}
		r.aliases[key] = alias
		return alias, nil
	}
}

// Apply returns a copy of records with every participant name replaced by
// its alias. Locations are kept.
func Apply(records []standings.DivisionRecord, strategy Strategy) ([]standings.DivisionRecord, error) {
	out := make([]standings.DivisionRecord, len(records))
	for i, r := range records {
		entries := make([]standings.ParticipantEntry, len(r.Entries))
		for j, e := range r.Entries {
			alias, err := strategy.Alias(e.Name)
			if err != nil {
				return nil, err
			}
			e.Name = alias
			entries[j] = e
		}
		r.Entries = entries
		out[i] = r
	}
	return out, nil
}
