package instruction

import "strings"

// User sets the user (and optionally group) later instructions run as
type User struct {
	UserID  string `yaml:"user"`
	GroupID string `yaml:"group,omitempty"`
}

func (User) Kind() Kind { return KindUser }

func (u User) String() string {
	return "USER " + joinOwner(u.UserID, u.GroupID)
}

func (u User) Expand(mapping func(string) string) Instruction {
	u.UserID = mapping(u.UserID)
	u.GroupID = mapping(u.GroupID)
	return u
}

func (u User) Attributes() map[string]any {
	return map[string]any{
		"user":  u.UserID,
		"group": u.GroupID,
	}
}

func (u User) Validate() error {
	if u.UserID == "" {
		return required(KindUser, "user")
	}
	return nil
}

func ParseUser(args string) (User, error) {
	user, group := splitOwner(strings.TrimSpace(args))
	u := User{UserID: user, GroupID: group}
	return u, u.Validate()
}
