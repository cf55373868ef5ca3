package directory

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/corpintra/directory-sync/internal/stringutil"
)

const (
	defaultConnectTimeout = 5
	defaultTimeLimit      = 30
	defaultPageSize       = 500
)

type ldapSource struct {
	ldapURL        string
	baseDN         string
	bindUser       string
	bindPassword   string
	filter         string
	connectTimeout time.Duration
	timeLimit      int
	pageSize       uint32
}

func NewLdapSource(settings *Settings) (Source, error) {
	var ldapURL, bindUsername, bindPassword string
	if url, err := url.Parse(settings.URI); err == nil {
		if url.User != nil {
			bindUsername = url.User.Username()
			bindPassword, _ = url.User.Password()
		}
		ldapURL = fmt.Sprintf("%s://%s", url.Scheme, url.Host)
	} else {
		return nil, err
	}
	if settings.BindPassword != "" {
		bindPassword = settings.BindPassword
	}

	var connectTimeout = settings.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	var timeLimit = settings.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimit
	}
	var pageSize = settings.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &ldapSource{
		ldapURL:        ldapURL,
		baseDN:         settings.BaseDN,
		bindUser:       bindUsername,
		bindPassword:   bindPassword,
		filter:         settings.EffectiveFilter(),
		connectTimeout: time.Duration(connectTimeout) * time.Second,
		timeLimit:      timeLimit,
		pageSize:       uint32(pageSize),
	}, nil
}

func (s *ldapSource) connect() (*ldap.Conn, error) {
	var conn, err = ldap.DialURL(s.ldapURL, ldap.DialWithDialer(&net.Dialer{Timeout: s.connectTimeout}))
	if err != nil {
		log.Printf("!!! ldap connection error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrConnectorFailure, err)
	}
	conn.SetTimeout(time.Duration(s.timeLimit) * time.Second)

	if !stringutil.IsAnyEmpty(s.bindUser, s.bindPassword) {
		if err = conn.Bind(s.bindUser, s.bindPassword); err != nil {
			log.Printf("!!! ldap bind error: %v", err)
			conn.Close()
			return nil, fmt.Errorf("%w: %v", ErrConnectorFailure, err)
		}
	}
	return conn, nil
}

func (s *ldapSource) Search(filter string, attributes []string) ([]RawRecord, error) {
	if filter == "" {
		filter = s.filter
	}

	var conn, err = s.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	log.Printf("LDAP: %s; base = %s", filter, s.baseDN)
	var searchRequest = ldap.NewSearchRequest(
		s.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		s.timeLimit,
		false,
		filter,
		attributes,
		nil,
	)
	var results *ldap.SearchResult
	if results, err = conn.SearchWithPaging(searchRequest, s.pageSize); err != nil {
		log.Printf("!!! ldap search error: %v", err)
		if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
			return nil, fmt.Errorf("%w: %v", ErrConnectorFailure, err)
		}
		return nil, err
	}

	var records = make([]RawRecord, 0, len(results.Entries))
	for _, entry := range results.Entries {
		records = append(records, entryToRecord(entry))
	}
	return records, nil
}

func (s *ldapSource) SearchOne(basePath, filter string, attributes []string) (*RawRecord, error) {
	var conn, err = s.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	log.Printf("LDAP: %s; base = %s", filter, basePath)
	var searchRequest = ldap.NewSearchRequest(
		basePath,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1,
		s.timeLimit,
		false,
		filter,
		attributes,
		nil,
	)
	var results *ldap.SearchResult
	if results, err = conn.Search(searchRequest); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, nil
		}
		// A size limit of one still yields the first entry alongside the
		// size-limit result code.
		if !(ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) && results != nil && len(results.Entries) > 0) {
			if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
				return nil, fmt.Errorf("%w: %v", ErrConnectorFailure, err)
			}
			return nil, err
		}
	}
	if len(results.Entries) == 0 {
		return nil, nil
	}

	var record = entryToRecord(results.Entries[0])
	return &record, nil
}

func entryToRecord(entry *ldap.Entry) RawRecord {
	var values = make(map[string][]string, len(entry.Attributes))
	var raw = make(map[string][][]byte, len(entry.Attributes))
	for _, attribute := range entry.Attributes {
		values[attribute.Name] = attribute.Values
		raw[attribute.Name] = attribute.ByteValues
	}
	return NewRawRecord(entry.DN, values, raw)
}
