package simulation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nvandessel/cohortsim/internal/constants"
	"github.com/nvandessel/cohortsim/internal/retention"
)

// ErrInvalidConfiguration is returned when run parameters break a constraint.
// Invalid parameters are never retried.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Params is the configuration record for a simulation run.
type Params struct {
	// NumTrials is the number of independent trials averaged together.
	NumTrials int `json:"num_trials" yaml:"num_trials" validate:"gte=1"`

	// NumStudents is the cohort size.
	NumStudents int `json:"num_students" yaml:"num_students" validate:"gte=1"`

	// NumSessions is the number of teaching sessions per trial.
	NumSessions int `json:"num_sessions" yaml:"num_sessions" validate:"gte=1"`

	// DecayRate is the forgetting rate lambda applied per session.
	DecayRate float64 `json:"decay_rate" yaml:"decay_rate" validate:"gt=0"`

	// MaxTeachCount caps how often one student can tutor per session.
	MaxTeachCount int `json:"max_teach_count" yaml:"max_teach_count" validate:"gte=1"`

	// SelfStudyProb is the chance a student studies alone each session.
	SelfStudyProb float64 `json:"self_study_prob" yaml:"self_study_prob" validate:"gte=0,lte=1"`

	// SelfStudyMin and SelfStudyMax bound the integer self-study gain.
	SelfStudyMin int `json:"self_study_min" yaml:"self_study_min" validate:"gte=1"`
	SelfStudyMax int `json:"self_study_max" yaml:"self_study_max" validate:"gtefield=SelfStudyMin"`

	// ExpRatio and SemiRatio are the percentages of experienced and
	// semi-experienced students; beginners take the rest.
	ExpRatio  int `json:"exp_ratio" yaml:"exp_ratio" validate:"gte=0"`
	SemiRatio int `json:"semi_ratio" yaml:"semi_ratio" validate:"gte=0"`

	// Seed fixes the random stream. Zero draws a seed from the clock.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultParams returns the classroom defaults: a 31-student cohort over
// 30 sessions with 10% experienced and 10% semi-experienced students.
func DefaultParams() Params {
	return Params{
		NumTrials:     10,
		NumStudents:   31,
		NumSessions:   30,
		DecayRate:     retention.DefaultDecayRate,
		MaxTeachCount: 3,
		SelfStudyProb: 0.3,
		SelfStudyMin:  1,
		SelfStudyMax:  2,
		ExpRatio:      10,
		SemiRatio:     10,
	}
}

// BeginnerRatio returns the percentage of beginners implied by the ratios.
func (p Params) BeginnerRatio() int {
	return constants.RatioTotal - p.ExpRatio - p.SemiRatio
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(Params)
		if p.ExpRatio+p.SemiRatio > constants.RatioTotal {
			sl.ReportError(p.SemiRatio, "SemiRatio", "SemiRatio", "ratiosum", "")
		}
	}, Params{})
	return v
}

// Validate checks every field constraint and reports all violations at once.
// The returned error wraps ErrInvalidConfiguration.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(p, fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(msgs, "; "))
}

// describe renders one validation failure in terms of the yaml field names.
func describe(p Params, fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fieldName(fe.Field()), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", fieldName(fe.Field()), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", fieldName(fe.Field()), fe.Param(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("self_study_min (%d) must not exceed self_study_max (%d)", p.SelfStudyMin, p.SelfStudyMax)
	case "ratiosum":
		return fmt.Sprintf("exp_ratio + semi_ratio must be <= %d, got %d", constants.RatioTotal, p.ExpRatio+p.SemiRatio)
	default:
		return fmt.Sprintf("%s failed %s", fieldName(fe.Field()), fe.Tag())
	}
}

var fieldNames = map[string]string{
	"NumTrials":     "num_trials",
	"NumStudents":   "num_students",
	"NumSessions":   "num_sessions",
	"DecayRate":     "decay_rate",
	"MaxTeachCount": "max_teach_count",
	"SelfStudyProb": "self_study_prob",
	"SelfStudyMin":  "self_study_min",
	"SelfStudyMax":  "self_study_max",
	"ExpRatio":      "exp_ratio",
	"SemiRatio":     "semi_ratio",
}

func fieldName(f string) string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return f
}
