package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/zabbix"
)

// DefaultPingKey is the item key of Zabbix's simple ICMP check.
const DefaultPingKey = "icmpping"

// NoIP is shown for hosts without a usable interface address.
const NoIP = "N/A"

// API is the subset of the Zabbix client the collector calls
type API interface {
	Login(ctx context.Context, user, password string) error
	Logout(ctx context.Context) error
	HostGroupsByName(ctx context.Context, names ...string) ([]zabbix.HostGroup, error)
	HostsInGroup(ctx context.Context, groupID string) ([]zabbix.Host, error)
	ItemsByKey(ctx context.Context, hostID, key string) ([]zabbix.Item, error)
	Trends(ctx context.Context, itemID string, from, till time.Time) ([]zabbix.Trend, error)
}

// Resolver turns a DNS name into an address
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// GroupNotFoundError is returned when no host group has the requested name
type GroupNotFoundError struct {
	Name string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("host group %q not found", e.Name)
}

// Collector gathers availability rows for every host of a group
type Collector struct {
	api      API
	user     string
	password string
	pingKey  string
	resolver Resolver
	logger   *logrus.Logger
	now      func() time.Time
}

// CollectorOption configures a Collector
type CollectorOption func(*Collector)

// WithCredentials sets the API user and password used to log in
func WithCredentials(user, password string) CollectorOption {
	return func(c *Collector) {
		c.user = user
		c.password = password
	}
}

// WithPingKey overrides the item key looked up on each host
func WithPingKey(key string) CollectorOption {
	return func(c *Collector) {
		if key != "" {
			c.pingKey = key
		}
	}
}

// WithResolver resolves DNS-only interfaces to addresses
func WithResolver(r Resolver) CollectorOption {
	return func(c *Collector) {
		c.resolver = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCollector creates a Collector on top of api
func NewCollector(api API, opts ...CollectorOption) *Collector {
	c := &Collector{
		api:     api,
		pingKey: DefaultPingKey,
		logger:  logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect logs in, walks the group's hosts in API order, and logs out.
// Hosts without the ping item are skipped.
func (c *Collector) Collect(ctx context.Context, group string, days int) (report *models.Report, err error) {
	if days <= 0 {
		return nil, fmt.Errorf("period must be a positive number of days, got %d", days)
	}

	window := Period(c.now(), days)

	if err := c.api.Login(ctx, c.user, c.password); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	defer func() {
		// A cancelled ctx would make logout fail too; give it its own.
		logoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if logoutErr := c.api.Logout(logoutCtx); logoutErr != nil {
			c.logger.Warnf("Failed to log out of Zabbix: %v", logoutErr)
		}
	}()

	groups, err := c.api.HostGroupsByName(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to look up host group: %w", err)
	}
	if len(groups) == 0 {
		return nil, &GroupNotFoundError{Name: group}
	}

	hosts, err := c.api.HostsInGroup(ctx, groups[0].GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	c.logger.Debugf("Group %q has %d hosts", group, len(hosts))

	report = &models.Report{
		Group:       group,
		PeriodDays:  days,
		From:        window.From,
		Till:        window.Till,
		GeneratedAt: window.Till,
		Hosts:       make([]models.HostAvailability, 0, len(hosts)),
	}

	for _, host := range hosts {
		row, ok, err := c.collectHost(ctx, host, window)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		report.Hosts = append(report.Hosts, row)
	}

	return report, nil
}

func (c *Collector) collectHost(ctx context.Context, host zabbix.Host, window Window) (models.HostAvailability, bool, error) {
	items, err := c.api.ItemsByKey(ctx, host.HostID, c.pingKey)
	if err != nil {
		return models.HostAvailability{}, false, fmt.Errorf("failed to get %s item of %s: %w", c.pingKey, host.Name, err)
	}
	if len(items) == 0 {
		c.logger.Debugf("Skipping %s: no %s item", host.Name, c.pingKey)
		return models.HostAvailability{}, false, nil
	}

	trends, err := c.api.Trends(ctx, items[0].ItemID, window.From, window.Till)
	if err != nil {
		return models.HostAvailability{}, false, fmt.Errorf("failed to get trends of %s: %w", host.Name, err)
	}

	downtime := DowntimeSeconds(trends, window.Seconds())

	return models.HostAvailability{
		Host:            host.Name,
		IP:              c.hostAddress(ctx, host),
		Availability:    Percentage(downtime, window.Seconds()),
		DowntimeSeconds: downtime,
		PeriodDays:      window.Days,
	}, true, nil
}

// hostAddress picks the first interface's IP. Interfaces that only carry a
// DNS name are resolved when a resolver is set, and shown by name otherwise.
func (c *Collector) hostAddress(ctx context.Context, host zabbix.Host) string {
	if len(host.Interfaces) == 0 {
		return ""
	}

	iface := host.Interfaces[0]
	if iface.IP != "" || !iface.UsesDNS() {
		return iface.IP
	}

	if c.resolver == nil {
		return iface.DNS
	}

	addr, err := c.resolver.Resolve(ctx, iface.DNS)
	if err != nil {
		c.logger.Warnf("Could not resolve %s for %s: %v", iface.DNS, host.Name, err)
		return iface.DNS
	}
	return addr
}

// DisplayIP renders an address, using NoIP for blanks
func DisplayIP(ip string) string {
	if ip == "" {
		return NoIP
	}
	return ip
}
