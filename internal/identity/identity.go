package identity

// Identity is the fully-resolved representation of one upstream record after
// fallback extraction. Email is the reconciliation key for both local
// projections and is always populated and lower-cased. Department is filled in
// by the hierarchy package, not by the extractor.
type Identity struct {
	Handle      string `json:"handle"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	JobTitle    string `json:"job_title"`
	PhoneOffice string `json:"phone_office,omitempty"`
	PhoneMobile string `json:"phone_mobile,omitempty"`
	Path        string `json:"path"`
	ManagerPath string `json:"manager_path,omitempty"`
	Department  string `json:"department,omitempty"`
}
