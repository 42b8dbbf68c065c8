package store

import (
	"net/url"

	"github.com/rafaelruch/agendapro-analytics/pkg/apperrors"
	"github.com/rafaelruch/agendapro-analytics/pkg/config"
)

// ConnectionConfig identifies one tenant's externally-hosted
// conversational store. It is supplied by the caller per request and
// never persisted by this engine.
type ConnectionConfig struct {
	// Endpoint is the store URL, e.g. "postgres://analytics@db.acme.example.com:5432".
	Endpoint string `json:"endpoint"`

	// Database is the tenant's logical database name.
	Database string `json:"database"`

	// Credential is the access credential for the endpoint user.
	Credential string `json:"-"`

	// ConversationsTable and MessagesTable override the system-default
	// table names when the tenant's store uses different ones.
	ConversationsTable string `json:"conversations_table,omitempty"`
	MessagesTable      string `json:"messages_table,omitempty"`
}

// Validate checks the fields required before any store call is
// attempted.
func (c ConnectionConfig) Validate() error {
	if c.Endpoint == "" {
		return apperrors.ErrMissingEndpoint
	}
	if c.Database == "" {
		return apperrors.ErrMissingDatabase
	}
	if c.Credential == "" {
		return apperrors.ErrMissingCredential
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.ErrInvalidEndpoint
	}
	return nil
}

// dsn builds the connection string for the tenant's database. The
// credential becomes the password for the endpoint's user; endpoints
// without a user default to "postgres".
func (c ConnectionConfig) dsn() (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", apperrors.ErrInvalidEndpoint
	}

	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, c.Credential)
	u.Path = "/" + c.Database

	return u.String(), nil
}

// Tables holds the resolved physical table names for one request.
// Resolution happens once per request: explicit tenant override wins,
// otherwise the system default applies.
type Tables struct {
	Conversations string
	Messages      string
}

// ResolveTables applies the tenant's overrides on top of the system
// defaults.
func (c ConnectionConfig) ResolveTables(defaults config.TableDefaults) Tables {
	t := Tables{
		Conversations: defaults.Conversations,
		Messages:      defaults.Messages,
	}
	if c.ConversationsTable != "" {
		t.Conversations = c.ConversationsTable
	}
	if c.MessagesTable != "" {
		t.Messages = c.MessagesTable
	}
	return t
}
