// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("billing_cycle", validateBillingCycle)
		_ = v.RegisterValidation("subscription_status", validateSubscriptionStatus)
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("severity", validateSeverity)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
		_ = v.RegisterValidation("plan", validatePlan)
	}
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "monthly", "quarterly", "yearly":
		return true
	}
	return false
}

func validateSubscriptionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "inactive":
		return true
	}
	return false
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateSeverity(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "caution", "warning", "danger":
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "payment", "renewal", "cancellation", "budget":
		return true
	}
	return false
}

func validatePlan(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "free", "paid":
		return true
	}
	return false
}
