// Package wizard models the registration flow as an explicit state machine:
// ten named steps with guarded transitions, replacing the ad hoc per-handler
// redirect checks a naive port would scatter around.
package wizard

import "github.com/you/regwizard/domain"

// Step identifies one screen of the registration flow.
type Step int

const (
	StepName Step = iota + 1
	StepBirthday
	StepEmail
	StepPassword
	StepPhone
	StepVerify
	StepRecovery
	StepReview
	StepTerms
	StepComplete
)

// Guard is a precondition on draft completeness that must hold before a step
// is reachable. A failing guard redirects to StepName.
type Guard func(*domain.Draft) bool

type definition struct {
	step  Step
	slug  string
	guard Guard
}

var definitions = []definition{
	{StepName, "name", nil},
	{StepBirthday, "birthday", nil},
	{StepEmail, "email", func(d *domain.Draft) bool {
		return d.FirstName != "" && d.LastName != ""
	}},
	{StepPassword, "password", nil},
	{StepPhone, "phone", nil},
	{StepVerify, "verify", nil},
	{StepRecovery, "recovery", nil},
	{StepReview, "review", nil},
	{StepTerms, "terms", nil},
	{StepComplete, "complete", func(d *domain.Draft) bool {
		return d.Complete()
	}},
}

var bySlug = func() map[string]definition {
	m := make(map[string]definition, len(definitions))
	for _, def := range definitions {
		m[def.slug] = def
	}
	return m
}()

// Slug returns the URL fragment naming the step.
func (s Step) Slug() string {
	for _, def := range definitions {
		if def.step == s {
			return def.slug
		}
	}
	return ""
}

// FromSlug resolves a URL fragment to its step.
func FromSlug(slug string) (Step, bool) {
	def, ok := bySlug[slug]
	if !ok {
		return 0, false
	}
	return def.step, true
}

// Next returns the step that follows s. StepComplete is terminal and returns
// itself.
func (s Step) Next() Step {
	if s >= StepComplete {
		return StepComplete
	}
	return s + 1
}

// Allowed reports whether the draft satisfies the step's guard.
func Allowed(s Step, draft *domain.Draft) bool {
	for _, def := range definitions {
		if def.step == s {
			return def.guard == nil || def.guard(draft)
		}
	}
	return false
}
