package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DTOS
// Request bodies are decoded and validated here, before anything reaches a
// command. Field-level messages go back in the error details so clients can
// highlight the offending input.
// ══════════════════════════════════════════════════════════════════════════════

var validate = newValidator()

// newValidator builds the shared validator with JSON field names in
// error messages instead of Go struct field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// registerRequest is the student registration payload.
type registerRequest struct {
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"required,min=8,max=72"`
	FirstName         string  `json:"first_name" validate:"required,max=100"`
	Gender            string  `json:"gender" validate:"omitempty,oneof=male female other"`
	CollegeRegNo      string  `json:"college_reg_no" validate:"required,max=20"`
	DateOfBirth       string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PersonalEmail     string  `json:"personal_email" validate:"omitempty,email"`
	MobileNumber      string  `json:"mobile_number" validate:"omitempty,len=10,numeric"`
	IsPWD             bool    `json:"is_pwd"`
	Branch            string  `json:"branch" validate:"required"`
	UGPercentage      float64 `json:"ug_percentage" validate:"required,gte=0,lte=100"`
	HasActiveBacklogs bool    `json:"has_active_backlogs"`
}

// loginRequest carries login credentials.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// updateProfileRequest carries the editable profile fields. Nil means
// "leave unchanged"; identity fields are not editable at all.
type updateProfileRequest struct {
	FirstName     *string  `json:"first_name" validate:"omitempty,max=100"`
	Gender        *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth   *string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PersonalEmail *string  `json:"personal_email" validate:"omitempty,email"`
	MobileNumber  *string  `json:"mobile_number" validate:"omitempty,len=10,numeric"`
	IsPWD         *bool    `json:"is_pwd"`
	UGPercentage  *float64 `json:"ug_percentage" validate:"omitempty,gte=0,lte=100"`
	HasBacklogs   *bool    `json:"has_active_backlogs"`
}

// postJobRequest is the admin job posting payload.
type postJobRequest struct {
	Title            string    `json:"title" validate:"required,max=200"`
	Company          string    `json:"company" validate:"required,max=200"`
	Description      string    `json:"description" validate:"max=10000"`
	Location         string    `json:"location" validate:"max=200"`
	PackageRange     string    `json:"package_range" validate:"max=100"`
	MinUGPercentage  *float64  `json:"min_ug_percentage" validate:"omitempty,gte=0,lte=100"`
	AllowBacklogs    bool      `json:"allow_backlogs"`
	EligibleBranches []string  `json:"eligible_branches"`
	Skills           []string  `json:"skills"`
	Deadline         time.Time `json:"deadline" validate:"required"`
	CountsAsOffer    bool      `json:"counts_as_offer"`
}

// updateJobRequest carries a partial job edit.
type updateJobRequest struct {
	Title            *string    `json:"title" validate:"omitempty,max=200"`
	Description      *string    `json:"description" validate:"omitempty,max=10000"`
	Location         *string    `json:"location" validate:"omitempty,max=200"`
	PackageRange     *string    `json:"package_range" validate:"omitempty,max=100"`
	MinUGPercentage  *float64   `json:"min_ug_percentage" validate:"omitempty,gte=0,lte=100"`
	ClearMinUGPct    bool       `json:"clear_min_ug_percentage"`
	AllowBacklogs    *bool      `json:"allow_backlogs"`
	EligibleBranches *[]string  `json:"eligible_branches"`
	Skills           *[]string  `json:"skills"`
	Deadline         *time.Time `json:"deadline"`
	CountsAsOffer    *bool      `json:"counts_as_offer"`
}

// transitionRequest moves an application along its pipeline.
type transitionRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
	Stage     string `json:"stage" validate:"omitempty,max=100"`
}

// submitGrievanceRequest files a grievance, optionally anonymous.
type submitGrievanceRequest struct {
	Type         string `json:"type" validate:"omitempty,max=50"`
	Subject      string `json:"subject" validate:"required,min=1,max=200"`
	Description  string `json:"description" validate:"required,max=5000"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// respondGrievanceRequest carries the admin reply.
type respondGrievanceRequest struct {
	Response string `json:"response" validate:"omitempty,max=5000"`
	Status   string `json:"status" validate:"omitempty,oneof=submitted in_progress resolved"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DECODING
// ══════════════════════════════════════════════════════════════════════════════

const maxRequestBody = 1 << 20 // JSON bodies; resume uploads have their own cap

// decodeJSON reads, decodes, and validates a request body into dst.
// dst must be a pointer to a struct with validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	// Trailing garbage after the JSON document is rejected.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return errors.New(formatValidationErrors(verrs))
		}
		return err
	}

	return nil
}

// formatValidationErrors renders validator errors as one readable line.
func formatValidationErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "gte", "lte":
			parts = append(parts, fmt.Sprintf("%s is out of range", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}
