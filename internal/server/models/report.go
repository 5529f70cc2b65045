package models

// Manager-remarks values applied when a record is created. Owners cannot set
// the field on creation; admins adjust it later through update.
const (
	DefaultDailyRemarks  = "No remarks"
	DefaultWeeklyRemarks = "Awaiting update"
)

// DailyActivity is one day's sales call report, owned by exactly one user.
type DailyActivity struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Date            string `json:"date"`
	Day             string `json:"day"`
	AccountName     string `json:"accountName"`
	ContactPerson   string `json:"contactPerson"`
	ContactNumber   string `json:"contactNumber"`
	WorkDone        string `json:"workDone"`
	Outcome         string `json:"outcome"`
	SupportRequired string `json:"supportRequired"`
	ManagerRemarks  string `json:"managerRemarks"`
}

// WeeklyPlan is one planned week of customer work, owned by exactly one user.
type WeeklyPlan struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	Date             string `json:"date"`
	Day              string `json:"day"`
	CustomerName     string `json:"customerName"`
	ContactPersons   string `json:"contactPersons"`
	Requirement      string `json:"requirement"`
	ProposedAction   string `json:"proposedAction"`
	PlanningRequired string `json:"planningRequired"`
	SupportRequired  string `json:"supportRequired"`
	ManagerRemarks   string `json:"managerRemarks"`
}

// NewDailyActivity builds a record attributed to ownerID. Any id, owner or
// manager-remarks value present in the input is discarded; remarks start at
// the construction-time default.
func NewDailyActivity(ownerID string, in DailyActivity) *DailyActivity {
	in.ID = ""
	in.UserID = ownerID
	in.ManagerRemarks = DefaultDailyRemarks
	return &in
}

// NewWeeklyPlan builds a record attributed to ownerID, same rules as
// NewDailyActivity.
func NewWeeklyPlan(ownerID string, in WeeklyPlan) *WeeklyPlan {
	in.ID = ""
	in.UserID = ownerID
	in.ManagerRemarks = DefaultWeeklyRemarks
	return &in
}

// DailyActivityPatch carries the fields a PUT may change. Nil means "leave
// as stored".
type DailyActivityPatch struct {
	Date            *string `json:"date"`
	Day             *string `json:"day"`
	AccountName     *string `json:"accountName"`
	ContactPerson   *string `json:"contactPerson"`
	ContactNumber   *string `json:"contactNumber"`
	WorkDone        *string `json:"workDone"`
	Outcome         *string `json:"outcome"`
	SupportRequired *string `json:"supportRequired"`
	ManagerRemarks  *string `json:"managerRemarks"`
}

func (p *DailyActivityPatch) Apply(r *DailyActivity) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Date, p.Date)
	set(&r.Day, p.Day)
	set(&r.AccountName, p.AccountName)
	set(&r.ContactPerson, p.ContactPerson)
	set(&r.ContactNumber, p.ContactNumber)
	set(&r.WorkDone, p.WorkDone)
	set(&r.Outcome, p.Outcome)
	set(&r.SupportRequired, p.SupportRequired)
	set(&r.ManagerRemarks, p.ManagerRemarks)
}

// WeeklyPlanPatch mirrors DailyActivityPatch for the weekly variant.
type WeeklyPlanPatch struct {
	Date             *string `json:"date"`
	Day              *string `json:"day"`
	CustomerName     *string `json:"customerName"`
	ContactPersons   *string `json:"contactPersons"`
	Requirement      *string `json:"requirement"`
	ProposedAction   *string `json:"proposedAction"`
	PlanningRequired *string `json:"planningRequired"`
	SupportRequired  *string `json:"supportRequired"`
	ManagerRemarks   *string `json:"managerRemarks"`
}

func (p *WeeklyPlanPatch) Apply(r *WeeklyPlan) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Date, p.Date)
	set(&r.Day, p.Day)
	set(&r.CustomerName, p.CustomerName)
	set(&r.ContactPersons, p.ContactPersons)
	set(&r.Requirement, p.Requirement)
	set(&r.ProposedAction, p.ProposedAction)
	set(&r.PlanningRequired, p.PlanningRequired)
	set(&r.SupportRequired, p.SupportRequired)
	set(&r.ManagerRemarks, p.ManagerRemarks)
}
