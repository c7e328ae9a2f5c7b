package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AdminPolicy lists the identities allowed on the administrator path.
type AdminPolicy struct {
	Admins []string `yaml:"admins"`
}

// AdminSet is an immutable set of administrator identity ids.
type AdminSet struct {
	ids map[string]struct{}
}

// NewAdminSet builds a set from the given ids, ignoring blanks.
func NewAdminSet(ids ...string) *AdminSet {
	set := &AdminSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set.ids[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether identityID is an administrator.
func (s *AdminSet) Contains(identityID string) bool {
	if s == nil || identityID == "" {
		return false
	}
	_, ok := s.ids[identityID]
	return ok
}

// Len returns the number of administrators
func (s *AdminSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// LoadAdminPolicy reads a YAML admin policy file.
func LoadAdminPolicy(path string) (*AdminPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read admin policy: %w", err)
	}

	var policy AdminPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse admin policy: %w", err)
	}
	return &policy, nil
}

// Admins combines ADMIN_USER_IDS with the optional policy file.
func (c *Config) Admins() (*AdminSet, error) {
	ids := append([]string{}, c.AdminUserIDs...)
	if c.AdminPolicyPath != "" {
		policy, err := LoadAdminPolicy(c.AdminPolicyPath)
		if err != nil {
			return nil, err
		}
		ids = append(ids, policy.Admins...)
	}
	return NewAdminSet(ids...), nil
}
