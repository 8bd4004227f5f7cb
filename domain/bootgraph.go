package domain

import (
	"sort"

	"github.com/casual-mw/casual/config"
	"github.com/casual-mw/casual/errors"
)

// bootOrder computes a stable topological order over the configured boot
// groups. Ties among groups with no remaining dependencies
// are broken by group name so the order is deterministic across runs.
func bootOrder(groups []config.GroupConfig) ([]config.GroupConfig, error) {
	byName := make(map[string]config.GroupConfig, len(groups))
	indegree := make(map[string]int, len(groups))
	dependents := make(map[string][]string)

	for _, g := range groups {
		if _, dup := byName[g.Name]; dup {
			return nil, errors.Newf("domain: duplicate boot group %q", g.Name)
		}
		byName[g.Name] = g
		if _, ok := indegree[g.Name]; !ok {
			indegree[g.Name] = 0
		}
	}
	for _, g := range groups {
		for _, dep := range g.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, errors.Newf("domain: boot group %q depends on unknown group %q", g.Name, dep)
			}
			indegree[g.Name]++
			dependents[dep] = append(dependents[dep], g.Name)
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []config.GroupConfig
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		order = append(order, byName[name])

		next := append([]string(nil), dependents[name]...)
		sort.Strings(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(groups) {
		return nil, errors.New("domain: boot graph contains a cycle")
	}
	return order, nil
}
