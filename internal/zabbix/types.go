package zabbix

import (
	"fmt"
	"strconv"
	"strings"
)

// APIError is a JSON-RPC error object returned by the Zabbix API
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("zabbix api error %d: %s %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("zabbix api error %d: %s", e.Code, e.Message)
}

// HostGroup is a hostgroup.get row
type HostGroup struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`
}

// Interface is a host interface as returned by selectInterfaces
type Interface struct {
	IP    string `json:"ip"`
	DNS   string `json:"dns"`
	UseIP string `json:"useip"`
}

// UsesDNS reports whether the interface connects by DNS name instead of IP
func (i Interface) UsesDNS() bool {
	return i.UseIP == "0" && i.DNS != ""
}

// Host is a host.get row
type Host struct {
	HostID     string      `json:"hostid"`
	Name       string      `json:"name"`
	Interfaces []Interface `json:"interfaces"`
}

// Item is an item.get row
type Item struct {
	ItemID string `json:"itemid"`
}

// Trend is an hourly trend.get row. Zabbix encodes numbers as strings.
type Trend struct {
	ItemID   string `json:"itemid"`
	Clock    string `json:"clock"`
	ValueMin string `json:"value_min"`
}

// Min parses the hourly minimum value
func (t Trend) Min() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.ValueMin), 64)
}

// Version is a parsed apiinfo.version string
type Version struct {
	Major int
	Minor int
	Raw   string
}

// ParseVersion parses strings like "6.4.12" or "5.0"
func ParseVersion(s string) (Version, error) {
	v := Version{Raw: s}
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	if len(parts) < 2 {
		return v, fmt.Errorf("unexpected api version %q", s)
	}

	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return v, fmt.Errorf("unexpected api version %q: %w", s, err)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return v, fmt.Errorf("unexpected api version %q: %w", s, err)
	}
	return v, nil
}

// AtLeast reports whether v >= major.minor
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	return v.Raw
}
