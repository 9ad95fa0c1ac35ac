package pkg

import "time"

// State identifies the current position of a conversation in the dialogue
// flow.  One inbound text message advances the session by exactly one state.
type State int

const (
	// StateIdle is the resting state before /start (and after /cancel).
	StateIdle State = iota
	StateMainMenu
	StateFirstName
	StateLastName
	StateVisitType
	StateDoctorName
	StateLocation
	StateSpecialty
	StateProducts
	StateComment
	StatePharmacyName
	StatePharmacyAddress
	StatePharmacyProducts
	StatePharmacyComment
)

// VisitKind describes which report zone a visit belongs to.
type VisitKind string

const (
	VisitMorning   VisitKind = "AM"
	VisitAfternoon VisitKind = "PM"
	VisitPharmacy  VisitKind = "PHARMACY"
)

// Field names used both as session field keys and as the column schema of a
// visit record.  Morning visits use FieldHospital for the location, afternoon
// visits use FieldArea; both map to the same physical column.
const (
	FieldDoctor    = "Dr"
	FieldHospital  = "Hospital"
	FieldArea      = "Area"
	FieldSpecialty = "Specialty"
	FieldProducts  = "Products"
	FieldComment   = "Comment"
	FieldPharmacy  = "Pharmacy"
	FieldAddress   = "Address"
)

// Identity holds who the report belongs to.  It is captured once during the
// report-creation flow and reused to key the per-day document.
type Identity struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	FullName  string `json:"full_name"`
}

// Session is the mutable conversation state for one user.  Handlers treat it
// as a value: a transition takes the current session and returns the replaced
// one, so the session store always holds a complete, consistent record.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	State     State             `json:"state"`
	Kind      VisitKind         `json:"kind,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Identity  *Identity         `json:"identity,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SetField records one collected answer, allocating the map on first use.
func (s *Session) SetField(name, value string) {
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.Fields[name] = value
}

// ClearVisit drops the partially or fully collected visit data while keeping
// the captured identity, so a user can log several visits per report.
func (s *Session) ClearVisit() {
	s.Fields = nil
	s.Kind = ""
}
