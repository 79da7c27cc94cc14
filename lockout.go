package leagueauth

// lockoutPolicy tracks failed-login state on the user record itself.
// Counters survive restarts because they live wherever the UserStore
// persists users, not in any in-process structure.
type lockoutPolicy struct {
	threshold int
}

// RecordFailure increments the user's failure counter and reports
// whether this failure crossed the threshold and blocked the account.
func (p *lockoutPolicy) RecordFailure(u *User) bool {
	u.FailedLoginAttempts++
	if !u.IsBlocked && u.FailedLoginAttempts >= p.threshold {
		u.IsBlocked = true
		return true
	}
	return false
}

// Reset clears the failure counter after a successful login.
func (p *lockoutPolicy) Reset(u *User) {
	u.FailedLoginAttempts = 0
}
