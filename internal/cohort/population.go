package cohort

import "math/rand/v2"

// Population is a fixed set of students seated in a line.
//
// Membership never changes. The seating is an explicit permutation of member
// indices that is reshuffled at the start of every session, so position i's
// neighbours are the students seated at i-1 and i+1 for that session only.
type Population struct {
	members []*Student
	order   []int
	session int
}

// NewPopulation seats members in the given order.
func NewPopulation(members []*Student) *Population {
	order := make([]int, len(members))
	for i := range order {
		order[i] = i
	}
	return &Population{members: members, order: order}
}

// Len returns the number of students.
func (p *Population) Len() int { return len(p.members) }

// Session returns the current session index.
func (p *Population) Session() int { return p.session }

// At returns the student seated at position i this session.
func (p *Population) At(i int) *Student {
	return p.members[p.order[i]]
}

// Members returns the students in creation order, independent of seating.
func (p *Population) Members() []*Student {
	return p.members
}

// Order returns a copy of the current seating permutation.
// Order()[i] is the member index seated at position i.
func (p *Population) Order() []int {
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}

// Neighbors returns the occupied positions next to i, left first.
func (p *Population) Neighbors(i int) []int {
	out := make([]int, 0, 2)
	if i > 0 {
		out = append(out, i-1)
	}
	if i < len(p.order)-1 {
		out = append(out, i+1)
	}
	return out
}

// NextToExperienced reports whether either neighbour of position i is Experienced.
func (p *Population) NextToExperienced(i int) bool {
	for _, j := range p.Neighbors(i) {
		if p.At(j).IsExperienced() {
			return true
		}
	}
	return false
}

// BeginSession reseats everyone at random, resets teaching counters and moves
// every student to session.
func (p *Population) BeginSession(rng *rand.Rand, session int) {
	rng.Shuffle(len(p.order), func(i, j int) {
		p.order[i], p.order[j] = p.order[j], p.order[i]
	})
	p.session = session
	for _, s := range p.members {
		s.ResetTeachCount()
		s.SetSession(session)
	}
}

// Totals snapshots every student's total skill by seat position.
func (p *Population) Totals() []float64 {
	out := make([]float64, len(p.order))
	for i := range p.order {
		out[i] = p.At(i).TotalSkill()
	}
	return out
}

// MeanTotalSkill returns the population's average total skill.
func (p *Population) MeanTotalSkill() float64 {
	if len(p.members) == 0 {
		return 0
	}
	var sum float64
	for _, s := range p.members {
		sum += s.TotalSkill()
	}
	return sum / float64(len(p.members))
}

// BaseSkills returns each member's base skill in creation order.
func (p *Population) BaseSkills() []float64 {
	out := make([]float64, len(p.members))
	for i, s := range p.members {
		out[i] = s.BaseSkill()
	}
	return out
}

// TotalSkills returns each member's current total skill in creation order.
func (p *Population) TotalSkills() []float64 {
	out := make([]float64, len(p.members))
	for i, s := range p.members {
		out[i] = s.TotalSkill()
	}
	return out
}
