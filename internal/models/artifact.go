package models

import (
	"fmt"
	"sort"
)

// ArtifactRole identifies one layer of a generated module.
type ArtifactRole string

const (
	RoleController ArtifactRole = "controller"
	RoleService    ArtifactRole = "service"
	RoleRoutes     ArtifactRole = "routes"
	RoleDTO        ArtifactRole = "dto"
	RoleModel      ArtifactRole = "model"
)

// roleOrder fixes the order artifacts are listed and reported in.
var roleOrder = map[ArtifactRole]int{
	RoleModel:      0,
	RoleDTO:        1,
	RoleService:    2,
	RoleController: 3,
	RoleRoutes:     4,
}

// IsValid checks if the role is valid
func (r ArtifactRole) IsValid() bool {
	_, ok := roleOrder[r]
	return ok
}

// ParseArtifactRole parses a string into an ArtifactRole
func ParseArtifactRole(s string) (ArtifactRole, error) {
	r := ArtifactRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid artifact role: %s", s)
	}
	return r, nil
}

// FileName returns the conventional file name for this role, e.g. "invoice.service.ts".
func (r ArtifactRole) FileName(name EntityName) string {
	return fmt.Sprintf("%s.%s.ts", name.Lower, r)
}

// RequiredRoles returns the roles a module for v must contain.
func RequiredRoles(v Variant) []ArtifactRole {
	roles := []ArtifactRole{RoleDTO, RoleService, RoleController, RoleRoutes}
	if v.HasModel() {
		roles = append([]ArtifactRole{RoleModel}, roles...)
	}
	return roles
}

// Artifact is one rendered source file of a module.
type Artifact struct {
	Role     ArtifactRole
	FileName string
	Content  []byte
}

// ArtifactSet is the full rendered output for one module.
type ArtifactSet struct {
	Name      EntityName
	Variant   Variant
	Artifacts []Artifact
}

// Get returns the artifact for role, if present.
func (s *ArtifactSet) Get(role ArtifactRole) (Artifact, bool) {
	for _, a := range s.Artifacts {
		if a.Role == role {
			return a, true
		}
	}
	return Artifact{}, false
}

// Add stores an artifact, keeping the set sorted by role order.
func (s *ArtifactSet) Add(a Artifact) {
	s.Artifacts = append(s.Artifacts, a)
	sort.SliceStable(s.Artifacts, func(i, j int) bool {
		return roleOrder[s.Artifacts[i].Role] < roleOrder[s.Artifacts[j].Role]
	})
}

// FileNames lists artifact file names in role order.
func (s *ArtifactSet) FileNames() []string {
	names := make([]string, len(s.Artifacts))
	for i, a := range s.Artifacts {
		names[i] = a.FileName
	}
	return names
}
