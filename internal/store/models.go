package store

// Employee is the personnel-directory projection of one upstream record.
type Employee struct {
	Email       string `db:"email" json:"email"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	JobTitle    string `db:"job_title" json:"job_title"`
	Department  string `db:"department" json:"department,omitempty"`
	PhoneOffice string `db:"phone_office" json:"phone_office,omitempty"`
	PhoneMobile string `db:"phone_mobile" json:"phone_mobile,omitempty"`
	Avatar      []byte `db:"avatar" json:"-"`
	Active      bool   `db:"active" json:"active"`
}

// Account is the authentication-account projection. It additionally carries
// the resolved manager self-reference, correlated to another account by email.
// The two projections share the email key but are not foreign-keyed to each
// other.
type Account struct {
	Email        string `db:"email" json:"email"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	JobTitle     string `db:"job_title" json:"job_title"`
	Department   string `db:"department" json:"department,omitempty"`
	ManagerEmail string `db:"manager_email" json:"manager_email,omitempty"`
	PhoneOffice  string `db:"phone_office" json:"phone_office,omitempty"`
	PhoneMobile  string `db:"phone_mobile" json:"phone_mobile,omitempty"`
	Avatar       []byte `db:"avatar" json:"-"`
	Active       bool   `db:"active" json:"active"`
}

type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeCreated
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}
