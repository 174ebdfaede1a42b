package directory

import (
	"fmt"
	"os"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"
)

// Attributes is the identity attribute set read from the corporate
// directory during credential validation.
type Attributes struct {
	Username    string
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
	Department  string
	Plant       string
	UserCode    string
}

// Service validates credentials against the corporate directory. A
// reserved bypass credential pair (env-configured) is accepted for
// non-production testing.
type Service struct {
	url        string
	baseDN     string
	bindDomain string
	bypassUser string
	bypassPass string
}

func NewService() *Service {
	return &Service{
		url:        getEnv("LDAP_URL", "ldap://localhost:389"),
		baseDN:     getEnv("LDAP_BASE_DN", ""),
		bindDomain: getEnv("LDAP_BIND_DOMAIN", ""),
		bypassUser: os.Getenv("TEST_LOGIN_USERNAME"),
		bypassPass: os.Getenv("TEST_LOGIN_PASSWORD"),
	}
}

// ValidateCredentials checks a username/password pair against the
// directory. Any connectivity or protocol error fails closed: it is
// logged and reported as an authentication failure, never as a distinct
// error kind.
func (s *Service) ValidateCredentials(username, password string) (bool, *Attributes) {
	if username == "" || password == "" {
		return false, nil
	}

	// Reserved bypass pair for non-production testing
	if s.bypassUser != "" && username == s.bypassUser && password == s.bypassPass {
		logrus.Warnf("Directory bypass credentials used for '%s'", username)
		return true, &Attributes{Username: username}
	}

	conn, err := s.bind(username, password)
	if err != nil {
		logrus.Warnf("Directory bind failed for '%s': %v", username, err)
		return false, nil
	}
	defer conn.Close()

	attrs, err := s.searchUser(conn, username, []string{
		"givenName", "sn", "displayName", "mail", "department",
		"physicalDeliveryOfficeName", "employeeID",
	})
	if err != nil {
		// Bind succeeded, so the credentials are valid; attribute
		// lookup failure only costs us the attribute values.
		logrus.Warnf("Directory attribute lookup failed for '%s': %v", username, err)
		return true, &Attributes{Username: username}
	}

	return true, &Attributes{
		Username:    username,
		FirstName:   attrs.GetAttributeValue("givenName"),
		LastName:    attrs.GetAttributeValue("sn"),
		DisplayName: attrs.GetAttributeValue("displayName"),
		Email:       attrs.GetAttributeValue("mail"),
		Department:  attrs.GetAttributeValue("department"),
		Plant:       attrs.GetAttributeValue("physicalDeliveryOfficeName"),
		UserCode:    attrs.GetAttributeValue("employeeID"),
	}
}

// FetchAllAttributes returns the full raw attribute set for a user, for
// diagnostic display. Callers must not treat a failure here as an
// authentication failure.
func (s *Service) FetchAllAttributes(username, password string) (map[string][]string, error) {
	conn, err := s.bind(username, password)
	if err != nil {
		return nil, fmt.Errorf("directory bind failed: %w", err)
	}
	defer conn.Close()

	entry, err := s.searchUser(conn, username, []string{"*"})
	if err != nil {
		return nil, fmt.Errorf("directory search failed: %w", err)
	}

	all := make(map[string][]string, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		all[attr.Name] = attr.Values
	}
	return all, nil
}

func (s *Service) bind(username, password string) (*ldap.Conn, error) {
	conn, err := ldap.DialURL(s.url)
	if err != nil {
		return nil, err
	}

	bindUser := username
	if s.bindDomain != "" {
		bindUser = fmt.Sprintf("%s@%s", username, s.bindDomain)
	}
	if err := conn.Bind(bindUser, password); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (s *Service) searchUser(conn *ldap.Conn, username string, attributes []string) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		s.baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 10, false,
		fmt.Sprintf("(sAMAccountName=%s)", ldap.EscapeFilter(username)),
		attributes,
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, err
	}
	if len(res.Entries) == 0 {
		return nil, fmt.Errorf("no directory entry for '%s'", username)
	}
	return res.Entries[0], nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
