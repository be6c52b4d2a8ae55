package source

// Entity is an organisation or person that hosts or issues vectors.
// Entities obtained from a Registry carry stable arena ids linking them to
// their parent and top-level root; anonymous entities carry none.
type Entity struct {
	Key     string
	Name    string
	Email   string
	URL     string
	Country string
	Role    string

	// 1-based arena indexes; 0 means none.
	id     int
	parent int
	top    int
}

// Definition is the configuration form of an Entity. Root and TopLevelRoot
// reference other definitions by key, name or email.
type Definition struct {
	Key          string `yaml:"key,omitempty" json:"key,omitempty"`
	Name         string `yaml:"name" json:"name"`
	Email        string `yaml:"email,omitempty" json:"email,omitempty"`
	URL          string `yaml:"url,omitempty" json:"url,omitempty"`
	Country      string `yaml:"country,omitempty" json:"country,omitempty"`
	Role         string `yaml:"role,omitempty" json:"role,omitempty"`
	Root         string `yaml:"root,omitempty" json:"root,omitempty"`
	TopLevelRoot string `yaml:"topLevelRoot,omitempty" json:"topLevelRoot,omitempty"`
}

// Anonymous returns a name-only entity that belongs to no registry.
func Anonymous(name string) Entity {
	return Entity{Name: name}
}

// IsAnonymous reports whether e was synthesized rather than registered.
func (e Entity) IsAnonymous() bool { return e.id == 0 }

// HasParent reports whether e declares a root.
func (e Entity) HasParent() bool { return e.parent != 0 }

// Is reports whether ref names e by name, key or email.
func (e Entity) Is(ref string) bool {
	if ref == "" {
		return false
	}
	return ref == e.Name || ref == e.Key || ref == e.Email
}

func (e Entity) String() string {
	return e.Name
}

func (d Definition) refs() []string {
	refs := make([]string, 0, 3)
	for _, ref := range []string{d.Key, d.Name, d.Email} {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
