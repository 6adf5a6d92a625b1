package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/models"
)

// ErrLDAPDisabled is returned when LDAP authentication is disabled via configuration.
var ErrLDAPDisabled = errors.New("ldap authentication is disabled")

// LDAP attributes read from user entries.
const (
	ldapAttrEmail     = "mail"
	ldapAttrFirstName = "givenName"
	ldapAttrLastName  = "sn"
)

// LDAPProvider handles LDAP authentication.
type LDAPProvider struct {
	config      config.LDAP
	db          *gorm.DB
	roles       *Service
	defaultRole string

	dial func(addr string, opts ...ldap.DialOpt) (ldap.Client, error)
}

// NewLDAPProvider creates a new LDAP provider.
func NewLDAPProvider(cfg config.LDAP, db *gorm.DB, roles *Service, defaultRole string) (*LDAPProvider, error) {
	if !cfg.Enabled {
		return nil, ErrLDAPDisabled
	}

	if cfg.GroupMemberAttr == "" {
		cfg.GroupMemberAttr = "member"
	}

	if cfg.UserFilter == "" {
		cfg.UserFilter = "(uid=%s)"
	}

	if cfg.GroupFilter == "" {
		cfg.GroupFilter = "(" + cfg.GroupMemberAttr + "=%s)"
	}

	return &LDAPProvider{
		config:      cfg,
		db:          db,
		roles:       roles,
		defaultRole: defaultRole,
		dial: func(addr string, opts ...ldap.DialOpt) (ldap.Client, error) {
			return ldap.DialURL(addr, opts...)
		},
	}, nil
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (ldap.Client, error) {
	var tlsConfig *tls.Config

	if p.config.UseTLS || p.config.StartTLS {
		u, err := url.Parse(p.config.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid LDAP url: %w", err)
		}

		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.InsecureSkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         u.Hostname(),
		}
	}

	conn, err := p.dial(p.config.URL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if p.config.StartTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	if p.config.Timeout > 0 {
		conn.SetTimeout(p.config.Timeout)
	}

	return conn, nil
}

// Authenticate authenticates a user against LDAP and returns the synchronised
// local user and the DNs of their groups.
func (p *LDAPProvider) Authenticate(ctx context.Context, username, password string) (*models.User, []string, error) {
	if password == "" {
		// an empty password is an unauthenticated bind on most servers
		return nil, nil, ErrInvalidPassword
	}

	conn, err := p.Connect()
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	if errBind := p.bindService(conn); errBind != nil {
		return nil, nil, errBind
	}

	userEntry, errSearch := p.searchUserEntry(conn, username)
	if errSearch != nil {
		return nil, nil, errSearch
	}

	if errAuth := conn.Bind(userEntry.DN, password); errAuth != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPassword, errAuth)
	}

	if errRebind := p.bindService(conn); errRebind != nil {
		return nil, nil, errRebind
	}

	groups, errGroups := p.getUserGroups(conn, userEntry.DN)
	if errGroups != nil {
		return nil, nil, fmt.Errorf("failed to get user groups: %w", errGroups)
	}

	user, errUpsert := p.upsertLDAPUser(ctx, username, userEntry, groups)
	if errUpsert != nil {
		return nil, nil, errUpsert
	}

	return user, groups, nil
}

// bindService binds with the configured service account, if any.
func (p *LDAPProvider) bindService(conn ldap.Client) error {
	if p.config.BindDN == "" {
		return nil
	}

	if err := conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
		return fmt.Errorf("failed to bind with service account: %w", err)
	}

	return nil
}

func (p *LDAPProvider) timeLimit() int {
	return int(p.config.Timeout.Seconds())
}

// searchUserEntry searches LDAP for the given username and returns a single entry.
func (p *LDAPProvider) searchUserEntry(conn ldap.Client, username string) (*ldap.Entry, error) {
	searchRequest := ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		p.timeLimit(),
		false,
		fmt.Sprintf(p.config.UserFilter, ldap.EscapeFilter(username)),
		[]string{ldapAttrEmail, ldapAttrFirstName, ldapAttrLastName, "dn"},
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(searchResult.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return searchResult.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

// getUserGroups returns the DNs of the groups userDN is a member of.
func (p *LDAPProvider) getUserGroups(conn ldap.Client, userDN string) ([]string, error) {
	base := p.config.GroupBaseDN
	if base == "" {
		base = p.config.BaseDN
	}

	searchRequest := ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		p.timeLimit(),
		false,
		fmt.Sprintf(p.config.GroupFilter, ldap.EscapeFilter(userDN)),
		[]string{"cn", "dn"},
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for groups: %w", err)
	}

	groups := make([]string, len(searchResult.Entries))
	for i, entry := range searchResult.Entries {
		groups[i] = entry.DN
	}

	return groups, nil
}

// roleFor resolves the role of a directory user.
func (p *LDAPProvider) roleFor(ctx context.Context, groups []string) (uint, error) {
	if p.config.AdminGroup != "" && slices.Contains(groups, p.config.AdminGroup) {
		role, err := p.roles.RoleByName(ctx, models.RoleAdmin)
		if err != nil {
			return 0, err
		}

		return role.ID, nil
	}

	return p.roles.RoleForGroups(ctx, models.AuthSourceLDAP, groups, p.defaultRole)
}

// upsertLDAPUser creates or updates the local copy of a directory user.
func (p *LDAPProvider) upsertLDAPUser(
	ctx context.Context,
	username string,
	entry *ldap.Entry,
	groups []string,
) (*models.User, error) {
	roleID, err := p.roleFor(ctx, groups)
	if err != nil {
		return nil, err
	}

	var user models.User

	err = p.db.WithContext(ctx).Where("external_id = ? AND auth_source = ?", entry.DN, models.AuthSourceLDAP).
		First(&user).Error

	notFound := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !notFound {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if notFound {
		user = models.User{
			Active:     true,
			Username:   username,
			AuthSource: models.AuthSourceLDAP,
			ExternalID: entry.DN,
		}
	}

	user.Email = entry.GetAttributeValue(ldapAttrEmail)
	user.FirstName = entry.GetAttributeValue(ldapAttrFirstName)
	user.LastName = entry.GetAttributeValue(ldapAttrLastName)
	user.RoleID = roleID

	if user.Email == "" {
		user.Email = username + "@ldap.local"
	}

	if err = p.db.WithContext(ctx).Omit("Role").Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}

// TestConnection tests the LDAP server connection and bind credentials.
func (p *LDAPProvider) TestConnection() error {
	conn, err := p.Connect()
	if err != nil {
		return err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	return p.bindService(conn)
}
