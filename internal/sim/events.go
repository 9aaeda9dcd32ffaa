/*
Package sim
File: events.go
Description:
    The environmental event scheduler. Each tick it decides whether a
    sunray or an asteroid strikes the galaxy.

    Two modes, mirroring the configuration:
    - Scripted: an explicit sequence string is consumed one character per
      tick ('S' sunray, 'A' asteroid, '$' pause the run). Deterministic
      runs use this.
    - Probability: per-tick rates rolled on a seeded RNG.
*/

package sim

import "math/rand"

// TickEvents is what the scheduler decided for one tick.
type TickEvents struct {
	Sunray   bool
	Asteroid bool
	Pause    bool // scripted '$': stop advancing until resumed
}

type eventScheduler struct {
	sequence []byte
	cursor   int

	sunrayRate   float64
	asteroidRate float64
	rng          *rand.Rand
}

func newEventScheduler(sequence string, sunrayRate, asteroidRate float64, rng *rand.Rand) *eventScheduler {
	return &eventScheduler{
		sequence:     []byte(sequence),
		sunrayRate:   sunrayRate,
		asteroidRate: asteroidRate,
		rng:          rng,
	}
}

// next consumes one tick's worth of schedule.
func (s *eventScheduler) next() TickEvents {
	if s.cursor < len(s.sequence) {
		c := s.sequence[s.cursor]
		s.cursor++
		switch c {
		case 'S':
			return TickEvents{Sunray: true}
		case 'A':
			return TickEvents{Asteroid: true}
		case '$':
			return TickEvents{Pause: true}
		}
		return TickEvents{}
	}

	var out TickEvents
	if s.sunrayRate > 0 && s.rng.Float64() < s.sunrayRate {
		out.Sunray = true
	}
	if s.asteroidRate > 0 && s.rng.Float64() < s.asteroidRate {
		out.Asteroid = true
	}
	return out
}

// setRates swaps the probability-mode rates (control surface).
func (s *eventScheduler) setRates(sunray, asteroid float64) {
	s.sunrayRate = sunray
	s.asteroidRate = asteroid
}
