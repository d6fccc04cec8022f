package booking

import (
	"fmt"
	"time"
)

// Step is a position in the wizard. Steps only advance one at a time.
type Step int

const (
	StepServiceSelect Step = iota + 1
	StepServiceDetails
	StepAddons
	StepDateTime
	StepContact
	StepReview
	StepSubmitted
)

var stepNames = map[Step]string{
	StepServiceSelect:  "service_select",
	StepServiceDetails: "service_details",
	StepAddons:         "addons",
	StepDateTime:       "date_time",
	StepContact:        "contact",
	StepReview:         "review",
	StepSubmitted:      "submitted",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepServiceSelect && s <= StepSubmitted
}

func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("booking: invalid step %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	step, ok := ParseStep(string(b))
	if !ok {
		return fmt.Errorf("booking: unknown step %q", string(b))
	}
	*s = step
	return nil
}

// ParseStep maps a step name back to its Step.
func ParseStep(name string) (Step, bool) {
	for step, n := range stepNames {
		if n == name {
			return step, true
		}
	}
	return 0, false
}

// Contact is the visitor's contact block.
type Contact struct {
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	City                string `json:"city"`
	State               string `json:"state"`
	ZipCode             string `json:"zipCode"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// State is the whole wizard. Every update returns a new value; the receiver
// is never modified.
type State struct {
	Step          Step              `json:"step"`
	ServiceID     string            `json:"serviceId,omitempty"`
	Answers       map[string]string `json:"answers"`
	Addons        []string          `json:"addons"`
	Date          string            `json:"date,omitempty"`
	Time          string            `json:"time,omitempty"`
	Contact       Contact           `json:"contact"`
	TermsAccepted bool              `json:"termsAccepted"`
	Reference     string            `json:"reference"`
	SubmittedAt   *time.Time        `json:"submittedAt,omitempty"`
}

// NewState starts a wizard at ServiceSelect with the given reference.
func NewState(reference string) State {
	return State{
		Step:      StepServiceSelect,
		Answers:   map[string]string{},
		Addons:    []string{},
		Reference: reference,
	}
}

func (s State) clone() State {
	out := s
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Addons = append([]string{}, s.Addons...)
	if s.SubmittedAt != nil {
		t := *s.SubmittedAt
		out.SubmittedAt = &t
	}
	return out
}

// Service returns the selected service, if any.
func (s State) Service() (Service, bool) {
	if s.ServiceID == "" {
		return Service{}, false
	}
	return LookupService(s.ServiceID)
}

// Progress is the share of the wizard completed, 0 to 100.
func (s State) Progress() int {
	if s.Step >= StepSubmitted {
		return 100
	}
	return int(s.Step-1) * 100 / int(StepSubmitted-1)
}

// Summary is the review-step rendering of a state.
type Summary struct {
	Reference string        `json:"reference"`
	Service   string        `json:"service"`
	Details   []SummaryLine `json:"details"`
	Addons    []string      `json:"addons"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Contact   Contact       `json:"contact"`
	Pricing   string        `json:"pricing"`
}

// SummaryLine is one answered question with its display value.
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summarize resolves ids to display labels. Unanswered optional questions
// are skipped.
func (s State) Summarize() Summary {
	sum := Summary{
		Reference: s.Reference,
		Date:      s.Date,
		Time:      s.Time,
		Contact:   s.Contact,
		Pricing:   PricingNote,
		Addons:    []string{},
	}
	svc, ok := s.Service()
	if !ok {
		return sum
	}
	sum.Service = svc.Name
	for _, q := range svc.Questions {
		v := s.Answers[q.ID]
		if v == "" {
			continue
		}
		sum.Details = append(sum.Details, SummaryLine{Label: q.Label, Value: displayAnswer(q, v)})
	}
	for _, id := range s.Addons {
		if a, ok := svc.Addon(id); ok {
			sum.Addons = append(sum.Addons, a.Name)
		}
	}
	return sum
}

func displayAnswer(q Question, v string) string {
	for _, o := range q.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}
