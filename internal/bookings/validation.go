package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"

	"github.com/go-playground/validator/v10"
)

// Campaign objectives accepted on a booking request.
const (
	ObjectiveBrandAwareness = "brand-awareness"
	ObjectiveProductLaunch  = "product-launch"
	ObjectiveSalesPromotion = "sales-promotion"
	ObjectiveEventPromotion = "event-promotion"
	ObjectiveLeadGeneration = "lead-generation"
	ObjectiveOther          = "other"
)

const minTargetAudienceLength = 20

var objectives = map[string]struct{}{
	ObjectiveBrandAwareness: {},
	ObjectiveProductLaunch:  {},
	ObjectiveSalesPromotion: {},
	ObjectiveEventPromotion: {},
	ObjectiveLeadGeneration: {},
	ObjectiveOther:          {},
}

// CreateInput is the brand's booking request after transport decoding.
type CreateInput struct {
	SpaceID        string    `validate:"required,max=64"`
	StartDate      time.Time `validate:"required"`
	EndDate        time.Time `validate:"required"`
	Budget         *float64  `validate:"omitempty,gte=0"`
	Objective      string    `validate:"required,objective"`
	TargetAudience string    `validate:"required"`
	Notes          string    `validate:"max=2000"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("objective", func(fl validator.FieldLevel) bool {
		_, ok := objectives[fl.Field().String()]
		return ok
	})
	return v
}

func validateInput(v *validator.Validate, in CreateInput) error {
	if err := v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return apperrors.Validation("invalid booking request: %s", strings.Join(msgs, "; "))
		}
		return apperrors.Validation("invalid booking request: %v", err)
	}

	if utf8.RuneCountInString(in.TargetAudience) < minTargetAudienceLength {
		return apperrors.Validation("target audience must be at least %d characters", minTargetAudienceLength)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "objective":
		return fmt.Sprintf("%s %q is not a supported campaign objective", fe.Field(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}
