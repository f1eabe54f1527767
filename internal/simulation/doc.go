// Package simulation runs the cohort skill-diffusion model.
//
// A trial builds a population, then runs sessions strictly in order. Each
// session reseats students, schedules neighbour tutoring from a snapshot of
// total skill, applies tutoring gains, and finally lets students self-study.
// Gains decay exponentially with the number of sessions since they were
// earned.
//
// A Runner averages many independent trials. Trials run concurrently, each
// with its own population and a random stream derived from the run seed and
// the trial index, so a fixed seed reproduces the same result regardless of
// the worker count.
//
// Usage:
//
//	r, err := simulation.NewRunner(simulation.DefaultParams(),
//	    simulation.WithWorkers(4),
//	    simulation.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	res, err := r.Run(ctx)
package simulation
