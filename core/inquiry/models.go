package inquiry

import (
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

// field limits, longer values are cut and marked with an ellipsis
const (
	maxName         = 120
	maxEmail        = 200
	maxPhone        = 50
	maxMessage      = 4000
	maxPropertyType = 80
	maxNeighborhood = 120
	maxBudget       = 80
	maxTimeSlot     = 80
	maxDetails      = 4000
	maxSource       = 80

	defaultContactSource = "website"
	defaultViewingSource = "viewing-appointment"
)

var (
	ErrMissingDetails      = errors.New("Missing message/details.")
	ErrIncompleteViewing   = errors.New("Completează numele, un contact (telefon sau email), intervalul orar și detaliile.")
	errMissingDetailsField = core.FieldError{Field: "message", Error: ErrMissingDetails.Error()}
)

// ContactRequest is sent by the contact form and by the quick search "call me back" form.
type ContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	PropertyType string `json:"propertyType"`
	Neighborhood string `json:"neighborhood"`
	Budget       string `json:"budget"`
	Source       string `json:"source"`
}

func (r *ContactRequest) Clean() {
	r.Name = core.Clamp(r.Name, maxName)
	r.Email = core.Clamp(r.Email, maxEmail)
	r.Phone = core.Clamp(r.Phone, maxPhone)
	r.Message = core.Clamp(r.Message, maxMessage)
	r.PropertyType = core.Clamp(r.PropertyType, maxPropertyType)
	r.Neighborhood = core.Clamp(r.Neighborhood, maxNeighborhood)
	r.Budget = core.Clamp(r.Budget, maxBudget)
	r.Source = core.Clamp(r.Source, maxSource)
	if r.Source == "" {
		r.Source = defaultContactSource
	}
}

// Validate requires a message, or a way to call back (phone or email) plus some search details.
func (r *ContactRequest) Validate() error {
	r.Clean()
	hasMessage := r.Message != ""
	hasLeadRequest := (r.Phone != "" || r.Email != "") &&
		(r.PropertyType != "" || r.Neighborhood != "" || r.Budget != "")
	if !hasMessage && !hasLeadRequest {
		return core.NewValidationError(ErrMissingDetails, errMissingDetailsField)
	}
	return nil
}

// ViewingRequest asks for a viewing appointment.
type ViewingRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	PropertyType string `json:"propertyType"`
	TimeSlot     string `json:"timeSlot"`
	Details      string `json:"details"`
	Source       string `json:"source"`
}

func (r *ViewingRequest) Clean() {
	r.Name = core.Clamp(r.Name, maxName)
	r.Phone = core.Clamp(r.Phone, maxPhone)
	r.Email = core.Clamp(r.Email, maxEmail)
	r.PropertyType = core.Clamp(r.PropertyType, maxPropertyType)
	r.TimeSlot = core.Clamp(r.TimeSlot, maxTimeSlot)
	r.Details = core.Clamp(r.Details, maxDetails)
	r.Source = core.Clamp(r.Source, maxSource)
	if r.Source == "" {
		r.Source = defaultViewingSource
	}
}

// Validate requires a name, a contact (phone or email), a time slot and details.
func (r *ViewingRequest) Validate() error {
	r.Clean()
	var flds []core.FieldError
	missing := func(field string) {
		flds = append(flds, core.FieldError{Field: field, Error: ErrIncompleteViewing.Error()})
	}
	if r.Name == "" {
		missing("name")
	}
	if r.Phone == "" && r.Email == "" {
		missing("phone")
	}
	if r.TimeSlot == "" {
		missing("timeSlot")
	}
	if r.Details == "" {
		missing("details")
	}
	if len(flds) > 0 {
		return core.NewValidationError(ErrIncompleteViewing, flds...)
	}
	return nil
}
