package booking

// QuestionKind is the input type of a service question.
type QuestionKind string

const (
	KindSelect   QuestionKind = "select"
	KindNumber   QuestionKind = "number"
	KindTextarea QuestionKind = "textarea"
)

// Option is one choice of a select question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is one service-specific field.
type Question struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Kind        QuestionKind `json:"type"`
	Required    bool         `json:"required"`
	Options     []Option     `json:"options,omitempty"`
	Min         *float64     `json:"min,omitempty"`
	Max         *float64     `json:"max,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// Addon is an optional extra offered with a service.
type Addon struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Service is one bookable offering.
type Service struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Features    []string   `json:"features"`
	Questions   []Question `json:"questions"`
	Addons      []Addon    `json:"addons"`
}

// PricingNote replaces a price on every booking.
const PricingNote = "Price upon request"

func bound(v float64) *float64 { return &v }

var services = []Service{
	{
		ID:          "listing",
		Name:        "Property Listing",
		Description: "Professional property listing and marketing services",
		Duration:    "Varies",
		Features:    []string{"Professional photography", "Virtual tour creation", "Marketing across platforms", "Open house organization"},
		Questions: []Question{
			{ID: "propertyType", Label: "Property Type", Kind: KindSelect, Required: true, Options: []Option{
				{Value: "house", Label: "House"},
				{Value: "apartment", Label: "Apartment"},
				{Value: "commercial", Label: "Commercial"},
				{Value: "land", Label: "Land"},
				{Value: "other", Label: "Other"},
			}},
			{ID: "bedrooms", Label: "Number of Bedrooms", Kind: KindNumber, Required: true, Min: bound(0), Max: bound(20), Placeholder: "e.g., 3"},
			{ID: "bathrooms", Label: "Number of Bathrooms", Kind: KindNumber, Required: true, Min: bound(1), Max: bound(20), Placeholder: "e.g., 2"},
			{ID: "squareFootage", Label: "Square Footage", Kind: KindNumber, Placeholder: "Approximate size in sq ft"},
		},
		Addons: []Addon{
			{ID: "virtual_staging", Name: "Virtual Staging", Description: "Digitally furnished photos"},
			{ID: "drone_photos", Name: "Drone Photography", Description: "Aerial property shots"},
		},
	},
	{
		ID:          "maintenance",
		Name:        "Property Maintenance",
		Description: "Complete property maintenance and repair services",
		Duration:    "Ongoing",
		Features:    []string{"Regular inspections", "Emergency repairs", "Preventive maintenance", "24/7 support"},
		Questions: []Question{
			{ID: "maintenanceType", Label: "Maintenance Type", Kind: KindSelect, Required: true, Options: []Option{
				{Value: "regular", Label: "Regular Maintenance"},
				{Value: "emergency", Label: "Emergency Repair"},
				{Value: "seasonal", Label: "Seasonal Service"},
				{Value: "inspection", Label: "Property Inspection"},
			}},
			{ID: "frequency", Label: "Service Frequency", Kind: KindSelect, Required: true, Options: []Option{
				{Value: "one_time", Label: "One-time Service"},
				{Value: "weekly", Label: "Weekly"},
				{Value: "biweekly", Label: "Bi-weekly"},
				{Value: "monthly", Label: "Monthly"},
				{Value: "quarterly", Label: "Quarterly"},
				{Value: "annually", Label: "Annually"},
			}},
		},
		Addons: []Addon{
			{ID: "gutter_clean", Name: "Gutter Cleaning", Description: "Complete gutter cleaning"},
			{ID: "hvac_service", Name: "HVAC Service", Description: "HVAC maintenance"},
		},
	},
	{
		ID:          "logistics",
		Name:        "Moving & Logistics",
		Description: "Professional moving and logistics services",
		Duration:    "One-time",
		Features:    []string{"Packing & unpacking", "Loading & unloading", "Transportation", "Storage solutions"},
		Questions: []Question{
			{ID: "vehicleType", Label: "Vehicle Type Needed", Kind: KindSelect, Required: true, Options: []Option{
				{Value: "small_van", Label: "Small Van (1-2 rooms)"},
				{Value: "medium_truck", Label: "Medium Truck (2-3 rooms)"},
				{Value: "large_truck", Label: "Large Truck (3-4 rooms)"},
				{Value: "extra_large", Label: "Extra Large Truck (4+ rooms)"},
			}},
			{ID: "rooms", Label: "Number of Rooms", Kind: KindNumber, Required: true, Min: bound(1), Max: bound(20), Placeholder: "Total number of rooms to move"},
		},
		Addons: []Addon{
			{ID: "packing", Name: "Packing Service", Description: "Professional packing"},
			{ID: "storage", Name: "Storage Unit", Description: "Secure storage rental"},
		},
	},
	{
		ID:          "handyman",
		Name:        "Handyman Services",
		Description: "Expert handyman and repair services",
		Duration:    "As needed",
		Features:    []string{"Minor repairs", "Installations", "Furniture assembly", "Custom projects"},
		Questions: []Question{
			{ID: "serviceCategory", Label: "Service Category", Kind: KindSelect, Required: true, Options: []Option{
				{Value: "electrical", Label: "Electrical Work"},
				{Value: "plumbing", Label: "Plumbing"},
				{Value: "carpentry", Label: "Carpentry"},
				{Value: "painting", Label: "Painting"},
				{Value: "drywall", Label: "Drywall Repair"},
				{Value: "assembly", Label: "Furniture Assembly"},
			}},
			{ID: "taskDescription", Label: "Task Description", Kind: KindTextarea, Required: true, Placeholder: "Please describe the work needed..."},
		},
		Addons: []Addon{
			{ID: "emergency", Name: "Emergency Service", Description: "Priority same-day service"},
			{ID: "warranty", Name: "Warranty Extension", Description: "Extended warranty"},
		},
	},
}

// Services returns the bookable services in display order.
func Services() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// LookupService finds a service by id.
func LookupService(id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// Addon returns the add-on with id, if the service offers it.
func (s Service) Addon(id string) (Addon, bool) {
	for _, a := range s.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// Question returns the question with id.
func (s Service) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// TimeSlots are the bookable start times, hourly from 08:00 to 17:00.
var TimeSlots = []string{
	"08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "01:00 PM", "02:00 PM", "03:00 PM",
	"04:00 PM", "05:00 PM",
}

func isTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}
