package zabbix

import (
	"context"
	"time"
)

// HostGroupsByName returns the host groups whose name matches exactly.
func (c *Client) HostGroupsByName(ctx context.Context, names ...string) ([]HostGroup, error) {
	params := map[string]interface{}{
		"output": []string{"groupid", "name"},
		"filter": map[string]interface{}{"name": names},
	}

	var groups []HostGroup
	if err := c.call(ctx, "hostgroup.get", params, &groups, true); err != nil {
		return nil, err
	}
	return groups, nil
}

// HostsInGroup returns the hosts of a group with their interfaces.
func (c *Client) HostsInGroup(ctx context.Context, groupID string) ([]Host, error) {
	params := map[string]interface{}{
		"output":           []string{"hostid", "name"},
		"groupids":         []string{groupID},
		"selectInterfaces": []string{"ip", "dns", "useip"},
	}

	var hosts []Host
	if err := c.call(ctx, "host.get", params, &hosts, true); err != nil {
		return nil, err
	}
	return hosts, nil
}

// ItemsByKey returns the host's items with the given key.
func (c *Client) ItemsByKey(ctx context.Context, hostID, key string) ([]Item, error) {
	params := map[string]interface{}{
		"output":  []string{"itemid"},
		"hostids": []string{hostID},
		"filter":  map[string]interface{}{"key_": key},
	}

	var items []Item
	if err := c.call(ctx, "item.get", params, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

// Trends returns the hourly trends of an item between from and till.
func (c *Client) Trends(ctx context.Context, itemID string, from, till time.Time) ([]Trend, error) {
	params := map[string]interface{}{
		"output":    []string{"itemid", "clock", "value_min"},
		"itemids":   []string{itemID},
		"time_from": from.Unix(),
		"time_till": till.Unix(),
	}

	var trends []Trend
	if err := c.call(ctx, "trend.get", params, &trends, true); err != nil {
		return nil, err
	}
	return trends, nil
}
