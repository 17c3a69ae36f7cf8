package application

import "github.com/bnema/iot-warehouse-cli/internal/domain"

type RegisterCommand struct {
	Username       string
	PasswordHash   string
	Email          string
	BiometricToken string
	Role           string
}

// Result is the tagged outcome of a session action. Failures never escape as Go errors.
type Result struct {
	Success bool
	Message string
	Profile domain.Profile
}

func succeeded(message string, profile domain.Profile) Result {
	return Result{Success: true, Message: message, Profile: profile}
}

func failed(message string) Result {
	return Result{Message: message}
}

// SuccessPolicy holds the accepted envelope codes per call site.
type SuccessPolicy struct {
	Login    domain.SuccessCodes
	Mutation domain.SuccessCodes
}

func (p SuccessPolicy) withDefaults() SuccessPolicy {
	if len(p.Login) == 0 {
		p.Login = domain.DefaultLoginSuccessCodes
	}
	if len(p.Mutation) == 0 {
		p.Mutation = domain.DefaultMutationSuccessCodes
	}
	return p
}

type SearchMode string

const (
	// SearchModeFiltered trims the username and drops blank criteria before sending.
	SearchModeFiltered SearchMode = "filtered"
	// SearchModeRaw sends the criteria untouched.
	SearchModeRaw SearchMode = "raw"
)

func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeFiltered, SearchModeRaw:
		return true
	default:
		return false
	}
}
