package service

import (
	"log"

	"railgriev/models"
)

// ShedLookup resolves a shed code to its division/zone
type ShedLookup interface {
	GetShedByCode(code string) (*models.Shed, error)
}

// ControllerLookup finds an active controller for a department/division/zone
type ControllerLookup interface {
	FindActiveController(department, division, zone string) (*models.StaffUser, error)
}

// Assignment is the routing outcome for a new complaint
type Assignment struct {
	AssignedTo string // staff login or department code
	Division   string // empty when no shed was given
	Zone       string
}

// RoutingService decides the initial assignee for a submitted complaint
type RoutingService struct {
	sheds ShedLookup
	staff ControllerLookup
}

// NewRoutingService creates a new routing service
func NewRoutingService(sheds ShedLookup, staff ControllerLookup) *RoutingService {
	return &RoutingService{sheds: sheds, staff: staff}
}

// ResolveInitialAssignment determines the first owner of a complaint.
//
// An explicit department is used verbatim. Otherwise the default is
// COMMERCIAL; when a shed is given, its (division, zone) selects an active
// COMMERCIAL controller whose division and zone match, and that controller's
// login overrides the default. Lookup failures never surface as errors: the
// resolver degrades to the default department and logs the fallback.
func (s *RoutingService) ResolveInitialAssignment(shedCode, explicitDepartment string) Assignment {
	if explicitDepartment != "" {
		assignment := Assignment{AssignedTo: explicitDepartment}
		s.fillShedScope(&assignment, shedCode)
		return assignment
	}

	assignment := Assignment{AssignedTo: models.DefaultDepartment}
	if shedCode == "" {
		return assignment
	}

	shed, err := s.sheds.GetShedByCode(shedCode)
	if err != nil {
		log.Printf("[routing] shed lookup failed for %q, using default department: %v", shedCode, err)
		return assignment
	}
	if shed == nil {
		log.Printf("[routing] unknown shed %q, using default department", shedCode)
		return assignment
	}
	assignment.Division = shed.Division
	assignment.Zone = shed.Zone

	controller, err := s.staff.FindActiveController(models.DefaultDepartment, shed.Division, shed.Zone)
	if err != nil {
		log.Printf("[routing] controller lookup failed for (%s, %s), using default department: %v", shed.Division, shed.Zone, err)
		return assignment
	}
	if controller == nil {
		log.Printf("[routing] no active controller for (%s, %s), using default department", shed.Division, shed.Zone)
		return assignment
	}
	assignment.AssignedTo = controller.Login
	return assignment
}

// fillShedScope stamps division/zone when an explicit department was used
// with a shed, so the complaint still carries its geographic scope.
func (s *RoutingService) fillShedScope(a *Assignment, shedCode string) {
	if shedCode == "" {
		return
	}
	shed, err := s.sheds.GetShedByCode(shedCode)
	if err != nil || shed == nil {
		return
	}
	a.Division = shed.Division
	a.Zone = shed.Zone
}
