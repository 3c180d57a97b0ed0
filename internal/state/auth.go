package state

import "weather-client/internal/domain/entity"

// AuthState owns the session. Token is the only copy of the access token in the process:
// the API client reads it from here.
type AuthState struct {
	User                *entity.User      `json:"user"`
	Token               *string           `json:"token"`
	RefreshToken        *string           `json:"refreshToken"`
	IsAuthenticated     bool              `json:"isAuthenticated"`
	IsLoading           bool              `json:"isLoading"`
	Error               *entity.AuthError `json:"error"`
	PendingVerification *string           `json:"pendingVerification"`
}

// AuthSession is the payload of a successful login, registration or restore.
type AuthSession struct {
	User         entity.User
	Token        string
	RefreshToken string
}

// TokenPair is the payload of a successful refresh.
type TokenPair struct {
	Token        string
	RefreshToken string
}

// VerificationResult is the payload of verifyEmail and resendVerification.
type VerificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ClearAuthError struct{}

func (ClearAuthError) Type() string { return "auth/clearError" }

type ClearPendingVerification struct{}

func (ClearPendingVerification) Type() string { return "auth/clearPendingVerification" }

// SetToken installs a new access token. An empty RefreshToken keeps the current one.
type SetToken struct {
	Token        string
	RefreshToken string
}

func (SetToken) Type() string { return "auth/setToken" }

type ClearAuth struct{}

func (ClearAuth) Type() string { return "auth/clearAuth" }

// SessionExpired tears the session down after a failed token refresh.
type SessionExpired struct{ Message string }

func (SessionExpired) Type() string { return "auth/sessionExpired" }

// SessionExpiredCode is the error code left behind by SessionExpired.
const SessionExpiredCode = "SESSION_EXPIRED"

func isAuthOp(op string) bool {
	switch op {
	case OpRegister, OpVerifyEmail, OpLogin, OpRestoreSession, OpLoadCurrentUser, OpLogout,
		OpDeleteProfile, OpUpdateProfile, OpResendVerification, OpRefreshSession:
		return true
	}
	return false
}

func reduceAuth(s AuthState, action Action) AuthState {
	switch a := action.(type) {
	case ClearAuthError:
		s.Error = nil
	case ClearPendingVerification:
		s.PendingVerification = nil
	case SetToken:
		s.Token = stringPtr(a.Token)
		if a.RefreshToken != "" {
			s.RefreshToken = stringPtr(a.RefreshToken)
		}
		s.IsAuthenticated = true
	case ClearAuth:
		s = signOut(s)
		s.Error = nil
	case SessionExpired:
		s = signOut(s)
		s.Error = &entity.AuthError{Message: a.Message, Code: SessionExpiredCode, StatusCode: 401}
	case Pending:
		if !isAuthOp(a.Op) {
			return s
		}
		s.IsLoading = true
		s.Error = nil
		if a.Op == OpRegister {
			if email, ok := a.Arg.(string); ok {
				s.PendingVerification = stringPtr(email)
			}
		}
	case Fulfilled:
		if !isAuthOp(a.Op) {
			return s
		}
		s.IsLoading = false
		s.Error = nil
		s = applyAuthPayload(s, a)
	case Rejected:
		if !isAuthOp(a.Op) {
			return s
		}
		s.IsLoading = false
		s = applyAuthRejection(s, a)
	}
	return s
}

func applyAuthPayload(s AuthState, a Fulfilled) AuthState {
	switch a.Op {
	case OpLogin, OpRegister:
		if session, ok := a.Payload.(AuthSession); ok {
			s = signIn(s, session)
			s.PendingVerification = nil
		}
	case OpRestoreSession:
		if session, ok := a.Payload.(*AuthSession); ok && session != nil {
			s = signIn(s, *session)
		} else {
			s.IsAuthenticated = false
		}
	case OpLoadCurrentUser:
		if user, ok := a.Payload.(entity.User); ok {
			s.User = &user
			s.IsAuthenticated = true
		}
	case OpUpdateProfile:
		if user, ok := a.Payload.(entity.User); ok {
			s.User = &user
		}
	case OpVerifyEmail:
		s.PendingVerification = nil
	case OpRefreshSession:
		if pair, ok := a.Payload.(TokenPair); ok {
			s.Token = stringPtr(pair.Token)
			if pair.RefreshToken != "" {
				s.RefreshToken = stringPtr(pair.RefreshToken)
			}
			s.IsAuthenticated = true
		}
	case OpLogout, OpDeleteProfile:
		s = signOut(s)
	}
	return s
}

func applyAuthRejection(s AuthState, a Rejected) AuthState {
	switch a.Op {
	case OpRestoreSession:
		// no stored session is the normal first-run case
		s = signOut(s)
		s.Error = nil
		return s
	case OpLoadCurrentUser, OpLogout:
		s = signOut(s)
	}
	s.Error = authError(a)
	return s
}

func authError(a Rejected) *entity.AuthError {
	out := &entity.AuthError{Message: FallbackMessage(a.Op), Code: operationDefaults[a.Op].code}
	if a.Err != nil {
		if a.Err.Message != "" {
			out.Message = a.Err.Message
		}
		if a.Err.Code != "" {
			out.Code = a.Err.Code
		}
		out.StatusCode = a.Err.StatusCode
	}
	return out
}

func signIn(s AuthState, session AuthSession) AuthState {
	user := session.User
	s.User = &user
	s.Token = stringPtr(session.Token)
	s.RefreshToken = nil
	if session.RefreshToken != "" {
		s.RefreshToken = stringPtr(session.RefreshToken)
	}
	s.IsAuthenticated = true
	s.Error = nil
	return s
}

func signOut(s AuthState) AuthState {
	s.User = nil
	s.Token = nil
	s.RefreshToken = nil
	s.IsAuthenticated = false
	return s
}

func stringPtr(v string) *string {
	return &v
}
