package cohort

import (
	"math/rand/v2"

	"github.com/nvandessel/cohortsim/internal/constants"
	"github.com/nvandessel/cohortsim/internal/retention"
)

// Composition holds the number of students in each tier.
type Composition struct {
	Experienced     int `json:"experienced" yaml:"experienced"`
	SemiExperienced int `json:"semi_experienced" yaml:"semi_experienced"`
	Beginner        int `json:"beginner" yaml:"beginner"`
}

// Total returns the population size.
func (c Composition) Total() int {
	return c.Experienced + c.SemiExperienced + c.Beginner
}

// Split partitions n students by the experienced and semi-experienced
// percentages. Both tier counts truncate toward zero and beginners take the
// remainder, so the counts always sum to exactly n.
func Split(n, expPct, semiPct int) Composition {
	exp := n * expPct / constants.RatioTotal
	semi := n * semiPct / constants.RatioTotal
	return Composition{
		Experienced:     exp,
		SemiExperienced: semi,
		Beginner:        n - exp - semi,
	}
}

// tierProfile is the sampling range for a tier's initial attributes.
type tierProfile struct {
	skillMin, skillMax int
	motivMin, motivMax float64
}

var profiles = map[Tier]tierProfile{
	TierExperienced: {
		constants.ExperiencedSkillMin, constants.ExperiencedSkillMax,
		constants.ExperiencedMotivMin, constants.ExperiencedMotivMax,
	},
	TierSemiExperienced: {
		constants.SemiExperiencedSkillMin, constants.SemiExperiencedSkillMax,
		constants.SemiExperiencedMotivMin, constants.SemiExperiencedMotivMax,
	},
	TierBeginner: {
		constants.BeginnerSkillMin, constants.BeginnerSkillMax,
		constants.BeginnerMotivMin, constants.BeginnerMotivMax,
	},
}

// SkillRange returns the closed integer range base skill is drawn from for tier.
func SkillRange(t Tier) (lo, hi int) {
	p := profiles[t]
	return p.skillMin, p.skillMax
}

// MotivationRange returns the range motivation is drawn from for tier.
func MotivationRange(t Tier) (lo, hi float64) {
	p := profiles[t]
	return p.motivMin, p.motivMax
}

// NewRandomStudent draws a student's attributes from its tier's ranges.
func NewRandomStudent(rng *rand.Rand, t Tier, model retention.Model) *Student {
	p := profiles[t]
	base := p.skillMin + rng.IntN(p.skillMax-p.skillMin+1)
	motivation := p.motivMin + rng.Float64()*(p.motivMax-p.motivMin)
	return NewStudent(float64(base), t, motivation, model)
}

// Initialize builds a population of comp.Total() students, created in tier
// order (experienced, semi-experienced, beginner) and seated in that order
// until the first session shuffles them.
func Initialize(rng *rand.Rand, comp Composition, model retention.Model) *Population {
	members := make([]*Student, 0, comp.Total())
	for _, group := range []struct {
		tier  Tier
		count int
	}{
		{TierExperienced, comp.Experienced},
		{TierSemiExperienced, comp.SemiExperienced},
		{TierBeginner, comp.Beginner},
	} {
		for range group.count {
			members = append(members, NewRandomStudent(rng, group.tier, model))
		}
	}
	return NewPopulation(members)
}

// Count tallies the population's students by tier.
func (p *Population) Count() Composition {
	var c Composition
	for _, s := range p.members {
		switch s.Tier() {
		case TierExperienced:
			c.Experienced++
		case TierSemiExperienced:
			c.SemiExperienced++
		default:
			c.Beginner++
		}
	}
	return c
}
