package viewmodel

import (
	"context"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/state"
)

// AuthorizeURL is where the user approves a request token.
const AuthorizeURL = "https://www.themoviedb.org/authenticate/"

type AuthState struct {
	User         *models.User     `json:"user,omitempty"`
	RequestToken string           `json:"request_token,omitempty"`
	ApproveURL   string           `json:"approve_url,omitempty"`
	Status       models.LoadState `json:"status"`
}

// AuthViewModel runs the request-token / session exchange.
type AuthViewModel struct {
	*state.Holder[AuthState]

	source AccountSource
}

func NewAuthViewModel(source AccountSource) *AuthViewModel {
	vm := &AuthViewModel{
		Holder: state.NewHolder(AuthState{Status: models.NotLoading()}),
		source: source,
	}
	vm.Reload()
	return vm
}

// Reload republishes the stored user, picking up sign-outs made elsewhere.
func (vm *AuthViewModel) Reload() {
	vm.source.CurrentUser().OnSuccess(func(u *models.User) {
		vm.Update(func(s AuthState) AuthState {
			s.User = u
			return s
		})
	})
}

// RequestToken starts a sign-in.
func (vm *AuthViewModel) RequestToken() {
	vm.run(func(ctx context.Context) func(AuthState) AuthState {
		token, err := vm.source.CreateRequestToken(ctx).Get()
		return func(s AuthState) AuthState {
			if err != nil {
				s.Status = models.Failed(errors.Classify(err))
				return s
			}
			s.RequestToken = token
			s.ApproveURL = AuthorizeURL + token
			s.Status = models.Succeeded()
			return s
		}
	})
}

// CompleteSession exchanges the approved request token for a session.
func (vm *AuthViewModel) CompleteSession() {
	token := vm.State().RequestToken
	if token == "" {
		return
	}
	vm.run(func(ctx context.Context) func(AuthState) AuthState {
		user, err := vm.source.CreateSession(ctx, token).Get()
		return func(s AuthState) AuthState {
			if err != nil {
				s.Status = models.Failed(errors.Classify(err))
				return s
			}
			s.User = &user
			s.RequestToken, s.ApproveURL = "", ""
			s.Status = models.Succeeded()
			return s
		}
	})
}

func (vm *AuthViewModel) Logout() {
	vm.run(func(ctx context.Context) func(AuthState) AuthState {
		err := errOf(vm.source.Logout(ctx))
		return func(s AuthState) AuthState {
			// the local session is gone even when the remote call failed
			s.User = nil
			if err != nil {
				s.Status = models.Failed(errors.Classify(err))
			} else {
				s.Status = models.Succeeded()
			}
			return s
		}
	})
}

func (vm *AuthViewModel) run(work func(ctx context.Context) func(AuthState) AuthState) {
	vm.Update(func(s AuthState) AuthState {
		s.Status = models.Loading()
		return s
	})
	vm.Launch(func(ctx context.Context) {
		vm.Update(work(ctx))
	})
}

type SettingsState struct {
	Preferences models.Preferences `json:"preferences"`
	Status      models.LoadState   `json:"status"`
}

type SettingsViewModel struct {
	*state.Holder[SettingsState]

	source PreferenceSource
}

func NewSettingsViewModel(source PreferenceSource) *SettingsViewModel {
	vm := &SettingsViewModel{
		Holder: state.NewHolder(SettingsState{
			Preferences: models.DefaultPreferences(),
			Status:      models.NotLoading(),
		}),
		source: source,
	}
	vm.Load()
	return vm
}

// Load reads the stored preferences. The store is local, so this runs inline.
func (vm *SettingsViewModel) Load() {
	res := vm.source.Preferences()
	vm.Update(func(s SettingsState) SettingsState {
		if res.IsError() {
			s.Status = models.Failed(res.Err())
			return s
		}
		s.Preferences = res.Value()
		s.Status = models.Succeeded()
		return s
	})
}

// Save stores prefs and publishes them on success.
func (vm *SettingsViewModel) Save(prefs models.Preferences) error {
	res := vm.source.SavePreferences(prefs)
	vm.Update(func(s SettingsState) SettingsState {
		if res.IsError() {
			s.Status = models.Failed(res.Err())
			return s
		}
		s.Preferences = prefs
		s.Status = models.Succeeded()
		return s
	})
	return errOf(res)
}
