package session

import "strings"

// AllowList is the fixed set of privileged administrator emails. It is loaded
// once from configuration at process start and never mutated afterwards; it is
// a second authorization layer on top of session validity, not a replacement
// for it.
type AllowList struct {
	emails map[string]struct{}
}

func NewAllowList(emails []string) AllowList {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		set[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return AllowList{emails: set}
}

func (a AllowList) Contains(email string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
