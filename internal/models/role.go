package models

import "fmt"

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleAuthor   Role = "author"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the known set.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleAuthor:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// UnmarshalText lets JSON and token claims decode straight into a Role.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// SubscriptionModel is the customer's subscription tier.
type SubscriptionModel string

const (
	SubscriptionFree    SubscriptionModel = "free"
	SubscriptionPremium SubscriptionModel = "premium"
)

// Valid reports whether s is a known subscription tier.
func (s SubscriptionModel) Valid() bool {
	return s == SubscriptionFree || s == SubscriptionPremium
}

func (s *SubscriptionModel) UnmarshalText(text []byte) error {
	v := SubscriptionModel(text)
	if !v.Valid() {
		return fmt.Errorf("unknown subscription model %q", string(text))
	}
	*s = v
	return nil
}
