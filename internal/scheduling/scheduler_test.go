package scheduling

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/retention"
)

var model = retention.NewModel(0.3)

// line seats students with the given base skills in order. Skills of 55 and
// above are made Experienced, the rest Beginners.
func line(skills ...float64) *cohort.Population {
	members := make([]*cohort.Student, len(skills))
	for i, s := range skills {
		tier := cohort.TierBeginner
		if s >= 55 {
			tier = cohort.TierExperienced
		}
		members[i] = cohort.NewStudent(s, tier, 1, model)
	}
	return cohort.NewPopulation(members)
}

func TestSchedule_TieBreakPrefersLeft(t *testing.T) {
	pop := line(65, 10, 65)

	got := Schedule(pop, pop.Totals(), 3)

	// The 10 makes four attempts; both neighbours are equally skilled, so the
	// left one teaches until it hits the cap, then the right one takes over.
	want := []Interaction{
		{Teacher: 0, Learner: 1},
		{Teacher: 0, Learner: 1},
		{Teacher: 0, Learner: 1},
		{Teacher: 2, Learner: 1},
	}
	assert.Equal(t, want, got)
}

func TestSchedule_PicksStrictlyHighest(t *testing.T) {
	pop := line(30, 10, 62)

	got := Schedule(pop, pop.Totals(), 5)

	require.NotEmpty(t, got)
	for _, it := range got {
		if it.Learner == 1 {
			assert.Equal(t, 2, it.Teacher, "the more skilled right neighbour teaches")
		}
	}
}

func TestSchedule_OnlyMoreSkilledNeighboursTeach(t *testing.T) {
	pop := line(10, 10, 10)
	assert.Empty(t, Schedule(pop, pop.Totals(), 3))
}

func TestSchedule_DemandLimitsAttempts(t *testing.T) {
	// 45 makes two attempts, 62 makes one, 85 makes none.
	pop := line(45, 85, 62)

	got := Schedule(pop, pop.Totals(), 10)

	want := []Interaction{
		{Teacher: 1, Learner: 0},
		{Teacher: 1, Learner: 0},
		{Teacher: 1, Learner: 2},
	}
	assert.Equal(t, want, got)
}

func TestSchedule_TeachCapacityBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 0))
	for trial := range 50 {
		pop := cohort.Initialize(rng, cohort.Split(31, 20, 20), model)
		pop.BeginSession(rng, 0)

		maxTeach := 1 + trial%3
		interactions := Schedule(pop, pop.Totals(), maxTeach)

		taught := make(map[int]int)
		for _, it := range interactions {
			taught[it.Teacher]++
		}
		for seat, n := range taught {
			assert.LessOrEqual(t, n, maxTeach, "seat %d", seat)
			assert.Equal(t, n, pop.At(seat).TeachCount())
		}
	}
}

func TestSchedule_UsesSnapshotNotLiveSkill(t *testing.T) {
	pop := line(10, 65)
	totals := pop.Totals()

	// A gain recorded mid-session must not affect this session's pairing.
	pop.At(0).Record(100)

	got := Schedule(pop, totals, 3)
	assert.Len(t, got, 3)
}

func TestSchedule_NeighbourIndicesAreAdjacent(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	pop := cohort.Initialize(rng, cohort.Split(40, 10, 30), model)
	pop.BeginSession(rng, 0)

	for _, it := range Schedule(pop, pop.Totals(), 3) {
		d := it.Teacher - it.Learner
		assert.True(t, d == 1 || d == -1, "interaction %+v is not between neighbours", it)
	}
}
