package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable catalog of entities addressed by stable id.
// A nil *Registry behaves as an empty registry.
type Registry struct {
	entities []Entity
	index    map[string]int
}

type registryDocument struct {
	Entities []Definition `yaml:"entities" json:"entities"`
}

// LoadRegistry reads entity definitions from a YAML or JSON file.
// The format is detected by file extension (.json, .yaml, .yml).
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var doc registryDocument
	ext := filepath.Ext(path)
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON registry: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML registry: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported registry format: %s (supported: .json, .yaml, .yml)", ext)
	}

	reg, err := NewRegistry(doc.Entities)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}

// NewRegistry builds a registry from definitions. Parents are materialized
// before their children (Kahn's algorithm, declaration order among peers).
func NewRegistry(defs []Definition) (*Registry, error) {
	byRef := make(map[string]int, len(defs)*2)
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: entity %d has no name", ErrInvalidEntity, i)
		}
		for _, ref := range d.refs() {
			if j, ok := byRef[ref]; ok && j != i {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, ref)
			}
			byRef[ref] = i
		}
	}

	resolve := func(i int, ref string) (int, error) {
		if ref == "" {
			return -1, nil
		}
		j, ok := byRef[ref]
		if !ok {
			return -1, fmt.Errorf("%w: %q referenced by %q", ErrMissingParent, ref, defs[i].Name)
		}
		return j, nil
	}

	parents := make([]int, len(defs))
	tops := make([]int, len(defs))
	indegree := make([]int, len(defs))
	children := make([][]int, len(defs))
	for i, d := range defs {
		var err error
		if parents[i], err = resolve(i, d.Root); err != nil {
			return nil, err
		}
		if tops[i], err = resolve(i, d.TopLevelRoot); err != nil {
			return nil, err
		}
		for _, p := range []int{parents[i], tops[i]} {
			if p < 0 {
				continue
			}
			if p == i {
				return nil, fmt.Errorf("%w: %q references itself", ErrEntityCycle, d.Name)
			}
			indegree[i]++
			children[p] = append(children[p], i)
		}
	}

	queue := make([]int, 0, len(defs))
	for i := range defs {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	r := &Registry{
		entities: make([]Entity, 0, len(defs)),
		index:    make(map[string]int, len(byRef)),
	}
	ids := make([]int, len(defs))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		d := defs[i]
		e := Entity{
			Key:     d.Key,
			Name:    d.Name,
			Email:   d.Email,
			URL:     d.URL,
			Country: d.Country,
			Role:    d.Role,
			id:      len(r.entities) + 1,
		}
		if parents[i] >= 0 {
			e.parent = ids[parents[i]]
		}
		if tops[i] >= 0 {
			e.top = ids[tops[i]]
		}
		ids[i] = e.id
		r.entities = append(r.entities, e)
		for _, ref := range d.refs() {
			r.index[ref] = e.id
		}

		for _, c := range children[i] {
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(r.entities) != len(defs) {
		var stuck []string
		for i, d := range defs {
			if ids[i] == 0 {
				stuck = append(stuck, d.Name)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrEntityCycle, stuck)
	}
	return r, nil
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entities)
}

// Entities returns the registered entities, parents before children.
func (r *Registry) Entities() []Entity {
	if r == nil {
		return nil
	}
	out := make([]Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Find returns the entity registered under ref (name, email or key).
func (r *Registry) Find(ref string) (Entity, bool) {
	if r == nil {
		return Entity{}, false
	}
	id, ok := r.index[ref]
	if !ok {
		return Entity{}, false
	}
	return r.entities[id-1], true
}

// Lookup returns the entity registered under ref, or an anonymous name-only
// entity when ref is unknown. Anonymous entities are not registered.
func (r *Registry) Lookup(ref string) Entity {
	if e, ok := r.Find(ref); ok {
		return e
	}
	return Anonymous(ref)
}

// Parent returns the root declared by e.
func (r *Registry) Parent(e Entity) (Entity, bool) {
	return r.byID(e.parent)
}

// TopLevelRoot returns the top-level root declared by e.
func (r *Registry) TopLevelRoot(e Entity) (Entity, bool) {
	return r.byID(e.top)
}

// Ancestors returns e's parent chain, nearest first, followed by any
// top-level roots along the chain that are not already part of it.
func (r *Registry) Ancestors(e Entity) []Entity {
	var out []Entity
	seen := map[int]bool{e.id: true}
	add := func(id int) {
		if id == 0 || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, r.entities[id-1])
	}

	chain := []Entity{e}
	for cur, ok := r.Parent(e); ok; cur, ok = r.Parent(cur) {
		add(cur.id)
		chain = append(chain, cur)
	}
	for _, c := range chain {
		add(c.top)
	}
	return out
}

// Matches reports whether the entity referenced by ref is name, or descends
// from name. Without a registry entry only the literal reference matches.
func (r *Registry) Matches(ref, name string) bool {
	if ref == name {
		return true
	}
	e, ok := r.Find(ref)
	if !ok {
		return false
	}
	if e.Is(name) {
		return true
	}
	for _, a := range r.Ancestors(e) {
		if a.Is(name) {
			return true
		}
	}
	return false
}

func (r *Registry) byID(id int) (Entity, bool) {
	if r == nil || id <= 0 || id > len(r.entities) {
		return Entity{}, false
	}
	return r.entities[id-1], true
}
