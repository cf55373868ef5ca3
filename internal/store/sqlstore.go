package store

import (
	"bytes"
	"database/sql"
	"errors"
	"log"

	"github.com/blockloop/scan/v2"
	"github.com/corpintra/directory-sync/internal/identity"
	"github.com/corpintra/directory-sync/internal/stringutil"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// sqlStore persists both projections in PostgreSQL. Expected schema:
//
//	departments (id SERIAL PRIMARY KEY, name TEXT UNIQUE NOT NULL)
//	employees   (email TEXT PRIMARY KEY, first_name TEXT, last_name TEXT, job_title TEXT,
//	             department_id INT REFERENCES departments, phone_office TEXT, phone_mobile TEXT,
//	             avatar BYTEA, active BOOLEAN NOT NULL, last_modified TIMESTAMP)
//	accounts    (email TEXT PRIMARY KEY, first_name TEXT, last_name TEXT, job_title TEXT,
//	             department_id INT REFERENCES departments, manager_email TEXT, phone_office TEXT,
//	             phone_mobile TEXT, avatar BYTEA, password_hash TEXT, active BOOLEAN NOT NULL,
//	             last_modified TIMESTAMP)
type sqlStore struct {
	dbconn   *sql.DB
	settings *StoreSettings
}

func NewSqlStore(settings *StoreSettings) (Store, error) {
	dbconn, err := sql.Open("postgres", settings.URI)
	if err != nil {
		return nil, err
	}
	return &sqlStore{
		dbconn:   dbconn,
		settings: settings,
	}, nil
}

const selectEmployee = `SELECT e.email, e.first_name, e.last_name, e.job_title,
COALESCE(d.name, '') department, COALESCE(e.phone_office, '') phone_office,
COALESCE(e.phone_mobile, '') phone_mobile, e.avatar, e.active
FROM employees e LEFT JOIN departments d ON d.id = e.department_id
WHERE lower(e.email) = lower($1)`

const selectAccountBase = `SELECT a.email, a.first_name, a.last_name, a.job_title,
COALESCE(d.name, '') department, COALESCE(a.manager_email, '') manager_email,
COALESCE(a.phone_office, '') phone_office, COALESCE(a.phone_mobile, '') phone_mobile,
a.avatar, a.active
FROM accounts a LEFT JOIN departments d ON d.id = a.department_id`

const selectAccount = selectAccountBase + ` WHERE lower(a.email) = lower($1)`

func (s *sqlStore) UpsertIdentity(ident identity.Identity, managerEmail string, avatar []byte) (Outcome, Outcome, error) {
	var tx, err = s.dbconn.Begin()
	if err != nil {
		return OutcomeUnchanged, OutcomeUnchanged, err
	}
	defer tx.Rollback()

	var departmentID sql.NullInt64
	if ident.Department != "" {
		if departmentID, err = departmentByName(tx, ident.Department); err != nil {
			return OutcomeUnchanged, OutcomeUnchanged, err
		}
	}

	var employeeOutcome, accountOutcome Outcome
	if employeeOutcome, err = upsertEmployee(tx, ident, departmentID, avatar); err != nil {
		return OutcomeUnchanged, OutcomeUnchanged, err
	}
	if accountOutcome, err = upsertAccount(tx, ident, managerEmail, departmentID, avatar); err != nil {
		return OutcomeUnchanged, OutcomeUnchanged, err
	}

	if err = tx.Commit(); err != nil {
		return OutcomeUnchanged, OutcomeUnchanged, err
	}
	return employeeOutcome, accountOutcome, nil
}

// Departments are created on first observation and never deleted here.
func departmentByName(tx *sql.Tx, name string) (sql.NullInt64, error) {
	if _, err := tx.Exec(`INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return sql.NullInt64{}, err
	}
	var id sql.NullInt64
	if err := tx.QueryRow(`SELECT id FROM departments WHERE name = $1`, name).Scan(&id); err != nil {
		return sql.NullInt64{}, err
	}
	return id, nil
}

func upsertEmployee(tx *sql.Tx, ident identity.Identity, departmentID sql.NullInt64, avatar []byte) (Outcome, error) {
	var existing Employee
	var found = true
	if rows, err := tx.Query(selectEmployee, ident.Email); err == nil {
		if err := scan.RowStrict(&existing, rows); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return OutcomeUnchanged, err
			}
			found = false
		}
	} else {
		return OutcomeUnchanged, err
	}

	if !found {
		if _, err := tx.Exec(
			`INSERT INTO employees (email, first_name, last_name, job_title, department_id, phone_office, phone_mobile, avatar, active, last_modified)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, TRUE, now())`,
			ident.Email, ident.FirstName, ident.LastName, ident.JobTitle, departmentID,
			ident.PhoneOffice, ident.PhoneMobile, avatar,
		); err != nil {
			return OutcomeUnchanged, err
		}
		return OutcomeCreated, nil
	}

	if employeeUnchanged(existing, ident, avatar) {
		return OutcomeUnchanged, nil
	}
	if _, err := tx.Exec(
		`UPDATE employees SET first_name = $2, last_name = $3, job_title = $4, department_id = $5,
		phone_office = NULLIF($6, ''), phone_mobile = NULLIF($7, ''), avatar = COALESCE($8, avatar),
		active = TRUE, last_modified = now() WHERE lower(email) = lower($1)`,
		ident.Email, ident.FirstName, ident.LastName, ident.JobTitle, departmentID,
		ident.PhoneOffice, ident.PhoneMobile, avatar,
	); err != nil {
		return OutcomeUnchanged, err
	}
	return OutcomeUpdated, nil
}

func upsertAccount(tx *sql.Tx, ident identity.Identity, managerEmail string, departmentID sql.NullInt64, avatar []byte) (Outcome, error) {
	var existing Account
	var found = true
	if rows, err := tx.Query(selectAccount, ident.Email); err == nil {
		if err := scan.RowStrict(&existing, rows); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return OutcomeUnchanged, err
			}
			found = false
		}
	} else {
		return OutcomeUnchanged, err
	}

	if !found {
		// Accounts never authenticate with a local password; store an
		// unusable random hash so the row is still well-formed.
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(stringutil.RandomBytesString(24)), 5)
		if err != nil {
			return OutcomeUnchanged, err
		}
		if _, err := tx.Exec(
			`INSERT INTO accounts (email, first_name, last_name, job_title, department_id, manager_email, phone_office, phone_mobile, avatar, password_hash, active, last_modified)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, TRUE, now())`,
			ident.Email, ident.FirstName, ident.LastName, ident.JobTitle, departmentID,
			managerEmail, ident.PhoneOffice, ident.PhoneMobile, avatar, string(passwordHash),
		); err != nil {
			return OutcomeUnchanged, err
		}
		return OutcomeCreated, nil
	}

	if accountUnchanged(existing, ident, managerEmail, avatar) {
		return OutcomeUnchanged, nil
	}
	if _, err := tx.Exec(
		`UPDATE accounts SET first_name = $2, last_name = $3, job_title = $4, department_id = $5,
		manager_email = NULLIF($6, ''), phone_office = NULLIF($7, ''), phone_mobile = NULLIF($8, ''),
		avatar = COALESCE($9, avatar), active = TRUE, last_modified = now() WHERE lower(email) = lower($1)`,
		ident.Email, ident.FirstName, ident.LastName, ident.JobTitle, departmentID,
		managerEmail, ident.PhoneOffice, ident.PhoneMobile, avatar,
	); err != nil {
		return OutcomeUnchanged, err
	}
	return OutcomeUpdated, nil
}

func employeeUnchanged(existing Employee, ident identity.Identity, avatar []byte) bool {
	return existing.Active &&
		existing.FirstName == ident.FirstName &&
		existing.LastName == ident.LastName &&
		existing.JobTitle == ident.JobTitle &&
		existing.Department == ident.Department &&
		existing.PhoneOffice == ident.PhoneOffice &&
		existing.PhoneMobile == ident.PhoneMobile &&
		(avatar == nil || bytes.Equal(existing.Avatar, avatar))
}

func accountUnchanged(existing Account, ident identity.Identity, managerEmail string, avatar []byte) bool {
	return existing.Active &&
		existing.FirstName == ident.FirstName &&
		existing.LastName == ident.LastName &&
		existing.JobTitle == ident.JobTitle &&
		existing.Department == ident.Department &&
		existing.ManagerEmail == managerEmail &&
		existing.PhoneOffice == ident.PhoneOffice &&
		existing.PhoneMobile == ident.PhoneMobile &&
		(avatar == nil || bytes.Equal(existing.Avatar, avatar))
}

func (s *sqlStore) DeactivateMissing(observed []string) (int64, error) {
	var tx, err = s.dbconn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var employees, accounts int64
	if result, err := tx.Exec(
		`UPDATE employees SET active = FALSE, last_modified = now() WHERE active AND NOT (lower(email) = ANY($1))`,
		pq.Array(observed),
	); err == nil {
		employees, _ = result.RowsAffected()
	} else {
		return 0, err
	}
	if result, err := tx.Exec(
		`UPDATE accounts SET active = FALSE, last_modified = now() WHERE active AND NOT (lower(email) = ANY($1))`,
		pq.Array(observed),
	); err == nil {
		accounts, _ = result.RowsAffected()
	} else {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	if accounts > employees {
		return accounts, nil
	}
	return employees, nil
}

func (s *sqlStore) FindAccountByEmail(email string) (*Account, error) {
	return s.queryAccount(selectAccount, email)
}

func (s *sqlStore) FindAccountByName(firstName, lastName string) (*Account, error) {
	const query = selectAccountBase + ` WHERE lower(a.first_name) = lower($1) AND lower(a.last_name) = lower($2) LIMIT 1`
	return s.queryAccount(query, firstName, lastName)
}

func (s *sqlStore) FindAccountByNameContains(name string) (*Account, error) {
	const query = selectAccountBase + ` WHERE a.first_name ILIKE '%' || $1 || '%' OR a.last_name ILIKE '%' || $1 || '%' LIMIT 1`
	return s.queryAccount(query, name)
}

func (s *sqlStore) queryAccount(query string, args ...any) (*Account, error) {
	var account Account
	if rows, err := s.dbconn.Query(query, args...); err == nil {
		if err := scan.RowStrict(&account, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrAccountNotFound
			}
			log.Printf("!!! Scan account failed: %v", err)
			return nil, err
		}
	} else {
		log.Printf("!!! Query for account failed: %v", err)
		return nil, err
	}
	return &account, nil
}

func (s *sqlStore) Ping() error {
	return s.dbconn.Ping()
}
