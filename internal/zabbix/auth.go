package zabbix

import (
	"context"
	"fmt"
)

// Version returns the API version. The result is cached.
func (c *Client) Version(ctx context.Context) (Version, error) {
	c.mu.Lock()
	cached := c.version
	c.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	var raw string
	if err := c.call(ctx, "apiinfo.version", []string{}, &raw, false); err != nil {
		return Version{}, err
	}

	v, err := ParseVersion(raw)
	if err != nil {
		return Version{}, err
	}

	c.mu.Lock()
	c.version = &v
	c.mu.Unlock()
	return v, nil
}

// Login opens an API session. With a static token it only checks the
// API version.
func (c *Client) Login(ctx context.Context, user, password string) error {
	v, err := c.Version(ctx)
	if err != nil {
		return err
	}
	c.logger.Debugf("zabbix api version %s", v)

	if c.staticToken {
		return nil
	}

	// Zabbix 5.4 renamed the user parameter to username.
	userKey := "user"
	if v.AtLeast(5, 4) {
		userKey = "username"
	}

	params := map[string]string{
		userKey:    user,
		"password": password,
	}

	var session string
	if err := c.call(ctx, "user.login", params, &session, false); err != nil {
		return err
	}
	if session == "" {
		return fmt.Errorf("user.login: empty session id")
	}

	c.mu.Lock()
	c.auth = session
	c.mu.Unlock()
	return nil
}

// Logout closes the API session. It does nothing for static tokens or
// when no session is open.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	loggedIn := c.auth != "" && !c.staticToken
	c.mu.Unlock()
	if !loggedIn {
		return nil
	}

	err := c.call(ctx, "user.logout", []string{}, nil, true)

	c.mu.Lock()
	c.auth = ""
	c.mu.Unlock()
	return err
}
