// Package permissions holds the role predicates that gate each resource.
// A predicate only ever grants access to an authenticated identity whose
// profile carries the matching role; anything else is denied.
package permissions

import "ClinicRecords/models"

// Predicate decides whether an identity may use a resource.
type Predicate func(identity *models.User) bool

// IsDoctor grants access to authenticated identities with the doctor role.
func IsDoctor(identity *models.User) bool {
	return hasRole(identity, models.RoleDoctor)
}

// IsPatient grants access to authenticated identities with the patient role.
func IsPatient(identity *models.User) bool {
	return hasRole(identity, models.RolePatient)
}

// IsAuthenticated grants access to any authenticated identity.
func IsAuthenticated(identity *models.User) bool {
	return identity.IsAuthenticated()
}

func hasRole(identity *models.User, role models.Role) bool {
	if !identity.IsAuthenticated() || identity.Profile == nil {
		return false
	}
	return identity.Profile.Role == role
}
