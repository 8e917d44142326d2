package domain

// SessionState is the authentication state of the console.
type SessionState string

const (
	SessionStateChecking        SessionState = "checking"
	SessionStateUnauthenticated SessionState = "unauthenticated"
	SessionStateAuthenticated   SessionState = "authenticated"
)

// Credentials are the bearer token and display name persisted after a login.
type Credentials struct {
	Token    string
	UserName string
}

// Session is the current authentication state. Credentials are only carried
// by an authenticated session.
type Session struct {
	state SessionState
	creds Credentials
}

// CheckingSession is the startup state before stored credentials were read.
func CheckingSession() Session {
	return Session{state: SessionStateChecking}
}

// UnauthenticatedSession carries no credentials.
func UnauthenticatedSession() Session {
	return Session{state: SessionStateUnauthenticated}
}

// AuthenticatedSession returns an authenticated session, or an unauthenticated
// one when either credential field is empty.
func AuthenticatedSession(creds Credentials) Session {
	if creds.Token == "" || creds.UserName == "" {
		return UnauthenticatedSession()
	}
	return Session{state: SessionStateAuthenticated, creds: creds}
}

func (s Session) State() SessionState {
	if s.state == "" {
		return SessionStateUnauthenticated
	}
	return s.state
}

func (s Session) Authenticated() bool {
	return s.state == SessionStateAuthenticated
}

// Credentials reports the session credentials when authenticated.
func (s Session) Credentials() (Credentials, bool) {
	if !s.Authenticated() {
		return Credentials{}, false
	}
	return s.creds, true
}

// UserName returns the display name, empty when not authenticated.
func (s Session) UserName() string {
	return s.creds.UserName
}
