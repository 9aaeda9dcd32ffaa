/*
Package planet
File: rules.go
Description:
    The per-class capability matrix. A planet's class fixes four
    independent limits:

      Class | Cells | Generation | Rockets | Combination
        A   | many  |    <=1     |   <=1   |   none
        B   |  one  |  unbounded |  none   |   <=1
        C   |  one  |    <=1     |   <=1   |  unbounded
        D   | many  |  unbounded |  none   |   none

    Everything in actor.go consults this table and nothing else; a planet
    observed exceeding its own matrix is an internal-consistency fault.
*/

package planet

import "fmt"

// Class is a planet's rule set.
type Class int

const (
	ClassA Class = iota + 1
	ClassB
	ClassC
	ClassD
)

// Unlimited marks a capability with no cap.
const Unlimited = -1

// Limits are the four capability caps for one class.
type Limits struct {
	Generation int  // total successful generations allowed; Unlimited for none
	Rockets    int  // rockets that may ever be built
	Combines   int  // total successful combinations; Unlimited for none
	SingleCell bool // true when the class holds exactly one energy cell
}

var classLimits = map[Class]Limits{
	ClassA: {Generation: 1, Rockets: 1, Combines: 0, SingleCell: false},
	ClassB: {Generation: Unlimited, Rockets: 0, Combines: 1, SingleCell: true},
	ClassC: {Generation: 1, Rockets: 1, Combines: Unlimited, SingleCell: true},
	ClassD: {Generation: Unlimited, Rockets: 0, Combines: 0, SingleCell: false},
}

// LimitsFor returns the capability caps of a class.
func LimitsFor(c Class) Limits {
	return classLimits[c]
}

func (c Class) String() string {
	switch c {
	case ClassA:
		return "A"
	case ClassB:
		return "B"
	case ClassC:
		return "C"
	case ClassD:
		return "D"
	}
	return "?"
}

// ParseClass maps a config letter to a Class.
func ParseClass(s string) (Class, error) {
	switch s {
	case "A":
		return ClassA, nil
	case "B":
		return ClassB, nil
	case "C":
		return ClassC, nil
	case "D":
		return ClassD, nil
	}
	return 0, fmt.Errorf("unknown planet class %q", s)
}

// allows reports whether one more use of a counted capability fits under
// its cap.
func allows(used, limit int) bool {
	if limit == Unlimited {
		return true
	}
	return used < limit
}
