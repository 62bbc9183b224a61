package consultation

import (
	"regexp"
	"strings"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var projectTypeNames = map[string]string{
	"rmr_development":     "RMR product development",
	"recipe_digitization": "Recipe digitization",
	"factory_matching":    "Factory matching",
	"brand_consulting":    "Brand consulting",
	"menu_optimization":   "Menu optimization",
	"other":               "Other inquiry",
}

// ProjectTypeName returns the display label for a project type.
func ProjectTypeName(projectType string) string {
	if name, ok := projectTypeNames[projectType]; ok {
		return name
	}
	return projectType
}

// Validate checks an intake form.
func Validate(req *models.ConsultationRequest) error {
	if len([]rune(strings.TrimSpace(req.Name))) < 2 {
		return apperrors.NewConsultationValidationError("name must be at least 2 characters")
	}
	if n := len(digits(req.Phone)); n < 10 || n > 11 {
		return apperrors.NewConsultationValidationError("phone must contain 10 or 11 digits")
	}
	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		return apperrors.NewConsultationValidationError("email address is invalid")
	}
	if req.ProjectType != "" {
		if _, ok := projectTypeNames[req.ProjectType]; !ok {
			return apperrors.NewConsultationValidationError("unknown project type " + req.ProjectType)
		}
	}
	return nil
}

// FormatPhone renders 11 digits as 3-4-4 and 10 digits as 3-3-4. Anything else is returned unchanged.
func FormatPhone(phone string) string {
	d := digits(phone)
	switch len(d) {
	case 11:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	case 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	default:
		return phone
	}
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validStatus(s models.ConsultationStatus) bool {
	switch s {
	case models.ConsultationPending, models.ConsultationContacted, models.ConsultationInProgress,
		models.ConsultationProposalSent, models.ConsultationContracted, models.ConsultationCompleted,
		models.ConsultationCancelled:
		return true
	}
	return false
}
