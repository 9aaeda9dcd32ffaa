/*
Package resource
File: resource.go
Description:
    Defines the resource kinds that exist in the galaxy.

    There are two tiers:
    - Base kinds (Hydrogen, Oxygen, Carbon, Silicon): generated by planets
      that still have charged energy cells.
    - Complex kinds (Water, Diamond, Life, Robot, Dolphin, AIPartner):
      only ever produced by combining two other resources (see recipe.go).

    A resource unit carries no substructure beyond its kind; provenance
    is not tracked at runtime.
*/

package resource

import "fmt"

// Kind identifies one of the ten resource kinds. The zero value is not a
// valid kind, so omitted config fields are detectable.
type Kind int

const (
	// Base kinds
	Hydrogen Kind = iota + 1
	Oxygen
	Carbon
	Silicon

	// Complex kinds
	Water
	Diamond
	Life
	Robot
	Dolphin
	AIPartner
)

var kindNames = map[Kind]string{
	Hydrogen:  "hydrogen",
	Oxygen:    "oxygen",
	Carbon:    "carbon",
	Silicon:   "silicon",
	Water:     "water",
	Diamond:   "diamond",
	Life:      "life",
	Robot:     "robot",
	Dolphin:   "dolphin",
	AIPartner: "ai_partner",
}

// String returns the lowercase wire/config name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsBase reports whether the kind is one of the four generatable kinds.
func (k Kind) IsBase() bool {
	return k == Hydrogen || k == Oxygen || k == Carbon || k == Silicon
}

// IsComplex reports whether the kind can only be produced by combination.
func (k Kind) IsComplex() bool {
	return !k.IsBase() && k.valid()
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// BaseKinds lists the four generatable kinds.
func BaseKinds() []Kind {
	return []Kind{Hydrogen, Oxygen, Carbon, Silicon}
}

// ComplexKinds lists the six combination products.
func ComplexKinds() []Kind {
	return []Kind{Water, Diamond, Life, Robot, Dolphin, AIPartner}
}

// AllKinds lists every kind, base first.
func AllKinds() []Kind {
	return append(BaseKinds(), ComplexKinds()...)
}

// ParseKind maps a config/wire name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", name)
}

// MarshalYAML lets Kind fields render as their names in config files.
func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// UnmarshalYAML accepts the lowercase kind name.
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText renders the kind name so JSON snapshots stay readable,
// including when Kind is used as a map key.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the lowercase kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
