package store

import (
	"strings"
	"sync"

	"github.com/corpintra/directory-sync/internal/identity"
)

// EmbeddedStore keeps both projections in memory. It mirrors the sqlStore
// semantics and backs tests and offline runs.
type EmbeddedStore struct {
	mutex       sync.Mutex
	employees   map[string]*Employee
	accounts    map[string]*Account
	departments map[string]struct{}
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{
		employees:   map[string]*Employee{},
		accounts:    map[string]*Account{},
		departments: map[string]struct{}{},
	}
}

func (e *EmbeddedStore) UpsertIdentity(ident identity.Identity, managerEmail string, avatar []byte) (Outcome, Outcome, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if ident.Department != "" {
		e.departments[ident.Department] = struct{}{}
	}

	var key = strings.ToLower(ident.Email)
	var employeeOutcome, accountOutcome Outcome

	if existing, found := e.employees[key]; !found {
		e.employees[key] = &Employee{
			Email:       ident.Email,
			FirstName:   ident.FirstName,
			LastName:    ident.LastName,
			JobTitle:    ident.JobTitle,
			Department:  ident.Department,
			PhoneOffice: ident.PhoneOffice,
			PhoneMobile: ident.PhoneMobile,
			Avatar:      avatar,
			Active:      true,
		}
		employeeOutcome = OutcomeCreated
	} else if employeeUnchanged(*existing, ident, avatar) {
		employeeOutcome = OutcomeUnchanged
	} else {
		existing.FirstName = ident.FirstName
		existing.LastName = ident.LastName
		existing.JobTitle = ident.JobTitle
		existing.Department = ident.Department
		existing.PhoneOffice = ident.PhoneOffice
		existing.PhoneMobile = ident.PhoneMobile
		if avatar != nil {
			existing.Avatar = avatar
		}
		existing.Active = true
		employeeOutcome = OutcomeUpdated
	}

	if existing, found := e.accounts[key]; !found {
		e.accounts[key] = &Account{
			Email:        ident.Email,
			FirstName:    ident.FirstName,
			LastName:     ident.LastName,
			JobTitle:     ident.JobTitle,
			Department:   ident.Department,
			ManagerEmail: managerEmail,
			PhoneOffice:  ident.PhoneOffice,
			PhoneMobile:  ident.PhoneMobile,
			Avatar:       avatar,
			Active:       true,
		}
		accountOutcome = OutcomeCreated
	} else if accountUnchanged(*existing, ident, managerEmail, avatar) {
		accountOutcome = OutcomeUnchanged
	} else {
		existing.FirstName = ident.FirstName
		existing.LastName = ident.LastName
		existing.JobTitle = ident.JobTitle
		existing.Department = ident.Department
		existing.ManagerEmail = managerEmail
		existing.PhoneOffice = ident.PhoneOffice
		existing.PhoneMobile = ident.PhoneMobile
		if avatar != nil {
			existing.Avatar = avatar
		}
		existing.Active = true
		accountOutcome = OutcomeUpdated
	}

	return employeeOutcome, accountOutcome, nil
}

func (e *EmbeddedStore) DeactivateMissing(observed []string) (int64, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	var observedSet = make(map[string]struct{}, len(observed))
	for _, email := range observed {
		observedSet[strings.ToLower(email)] = struct{}{}
	}

	var flipped = map[string]struct{}{}
	for key, employee := range e.employees {
		if _, ok := observedSet[key]; !ok && employee.Active {
			employee.Active = false
			flipped[key] = struct{}{}
		}
	}
	for key, account := range e.accounts {
		if _, ok := observedSet[key]; !ok && account.Active {
			account.Active = false
			flipped[key] = struct{}{}
		}
	}
	return int64(len(flipped)), nil
}

func (e *EmbeddedStore) FindAccountByEmail(email string) (*Account, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if account, found := e.accounts[strings.ToLower(email)]; found {
		var copy = *account
		return &copy, nil
	}
	return nil, ErrAccountNotFound
}

func (e *EmbeddedStore) FindAccountByName(firstName, lastName string) (*Account, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for _, account := range e.accounts {
		if strings.EqualFold(account.FirstName, firstName) && strings.EqualFold(account.LastName, lastName) {
			var copy = *account
			return &copy, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (e *EmbeddedStore) FindAccountByNameContains(name string) (*Account, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	var needle = strings.ToLower(name)
	for _, account := range e.accounts {
		if strings.Contains(strings.ToLower(account.FirstName), needle) ||
			strings.Contains(strings.ToLower(account.LastName), needle) {
			var copy = *account
			return &copy, nil
		}
	}
	return nil, ErrAccountNotFound
}

// LookupEmployee exposes the employee projection for tests and offline runs.
func (e *EmbeddedStore) LookupEmployee(email string) (*Employee, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if employee, found := e.employees[strings.ToLower(email)]; found {
		var copy = *employee
		return &copy, true
	}
	return nil, false
}

func (e *EmbeddedStore) Ping() error {
	return nil
}

