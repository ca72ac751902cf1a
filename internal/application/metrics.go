package application

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/a704/dodream-backend/pkg/helpers"
)

var (
	verifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teacher_verify_total",
		Help: "Teacher registry verifications by result",
	}, []string{"result"})

	signupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teacher_signup_total",
		Help: "Teacher signups by result",
	}, []string{"result"})

	loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teacher_login_total",
		Help: "Teacher logins by result",
	}, []string{"result"})
)

// resultLabel folds an error into a small fixed label set.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrIdentityMismatch):
		return "identity_mismatch"
	case errors.Is(err, ErrEmailAlreadyUsed):
		return "email_used"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrNotATeacher):
		return "not_teacher"
	case errors.Is(err, helpers.ErrPasswordTooLong):
		return "invalid_password"
	default:
		return "error"
	}
}
