package store

import "github.com/magabrotheeeer/billing-console/internal/models"

const (
	LoadUserDetailsType        ActionType = "[User] Load User Details"
	LoadUserDetailsSuccessType ActionType = "[User] Load User Details Success"
	LoadUserDetailsFailureType ActionType = "[User] Load User Details Failure"
	LogoutType                 ActionType = "[User] Logout"
)

// UserAction закрытое множество действий среза пользователя.
type UserAction interface {
	Action
	userAction()
}

type userMarker struct{}

func (userMarker) userAction() {}

// LoadUserDetails запрашивает данные текущего пользователя.
type LoadUserDetails struct {
	userMarker
	requestMarker
}

type LoadUserDetailsSuccess struct {
	userMarker
	Payload models.UserDetails
}

type LoadUserDetailsFailure struct {
	userMarker
	Payload string
}

// Logout сбрасывает срез пользователя.
type Logout struct {
	userMarker
}

func (LoadUserDetails) Type() ActionType        { return LoadUserDetailsType }
func (LoadUserDetailsSuccess) Type() ActionType { return LoadUserDetailsSuccessType }
func (LoadUserDetailsFailure) Type() ActionType { return LoadUserDetailsFailureType }
func (Logout) Type() ActionType                 { return LogoutType }
