package model

import (
	"fmt"
	"strings"
)

// Class distinguishes the two subscriber account families on a RouterOS device
type Class string

const (
	ClassPPP     Class = "ppp"
	ClassHotspot Class = "hotspot"
)

// ParseClass accepts "ppp" or "hotspot" in any case.
func ParseClass(s string) (Class, error) {
	switch Class(strings.ToLower(strings.TrimSpace(s))) {
	case ClassPPP:
		return ClassPPP, nil
	case ClassHotspot:
		return ClassHotspot, nil
	}
	return "", fmt.Errorf("unknown account class %q (want ppp or hotspot)", s)
}

// Scope selects which account families a search covers
type Scope string

const (
	ScopePPP     Scope = "ppp"
	ScopeHotspot Scope = "hotspot"
	ScopeBoth    Scope = "both"
)

// ParseScope accepts ppp, hotspot or both; empty means both.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopePPP:
		return ScopePPP, nil
	case ScopeHotspot:
		return ScopeHotspot, nil
	case ScopeBoth, "":
		return ScopeBoth, nil
	}
	return "", fmt.Errorf("unknown scope %q (want ppp, hotspot or both)", s)
}

// Classes expands a scope into the account classes it covers, PPP first.
func (s Scope) Classes() []Class {
	switch s {
	case ScopePPP:
		return []Class{ClassPPP}
	case ScopeHotspot:
		return []Class{ClassHotspot}
	}
	return []Class{ClassPPP, ClassHotspot}
}

// Account is a PPP secret or a Hotspot user.
//
// Service is only meaningful for PPP and Server only for Hotspot.
// The device enforces name uniqueness per class.
type Account struct {
	ID              string `json:"id" yaml:"id"`
	Class           Class  `json:"class" yaml:"class"`
	Name            string `json:"name" yaml:"name"`
	Password        string `json:"password,omitempty" yaml:"password,omitempty"`
	Profile         string `json:"profile" yaml:"profile"`
	Service         string `json:"service,omitempty" yaml:"service,omitempty"`
	Server          string `json:"server,omitempty" yaml:"server,omitempty"`
	Address         string `json:"address,omitempty" yaml:"address,omitempty"`
	LocalAddress    string `json:"local_address,omitempty" yaml:"local_address,omitempty"`
	RemoteAddress   string `json:"remote_address,omitempty" yaml:"remote_address,omitempty"`
	MACAddress      string `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	Comment         string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Disabled        bool   `json:"disabled" yaml:"disabled"`
	RateLimit       string `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	LimitUptime     string `json:"limit_uptime,omitempty" yaml:"limit_uptime,omitempty"`
	LimitBytesIn    uint64 `json:"limit_bytes_in,omitempty" yaml:"limit_bytes_in,omitempty"`
	LimitBytesOut   uint64 `json:"limit_bytes_out,omitempty" yaml:"limit_bytes_out,omitempty"`
	LimitBytesTotal uint64 `json:"limit_bytes_total,omitempty" yaml:"limit_bytes_total,omitempty"`
	LastLoggedOut   string `json:"last_logged_out,omitempty" yaml:"last_logged_out,omitempty"`
}

// AccountDetail is an account together with its current session, if online.
type AccountDetail struct {
	Account `yaml:",inline"`
	Online  bool           `json:"online" yaml:"online"`
	Session *ActiveSession `json:"session,omitempty" yaml:"session,omitempty"`
}

// ActiveSession is a currently connected PPP or Hotspot user
type ActiveSession struct {
	ID         string `json:"id" yaml:"id"`
	Class      Class  `json:"class" yaml:"class"`
	Name       string `json:"name" yaml:"name"`
	Address    string `json:"address" yaml:"address"`
	Uptime     string `json:"uptime" yaml:"uptime"`
	Service    string `json:"service" yaml:"service"`
	CallerID   string `json:"caller_id,omitempty" yaml:"caller_id,omitempty"`
	MACAddress string `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	Server     string `json:"server,omitempty" yaml:"server,omitempty"`
	BytesIn    uint64 `json:"bytes_in" yaml:"bytes_in"`
	BytesOut   uint64 `json:"bytes_out" yaml:"bytes_out"`
	PacketsIn  uint64 `json:"packets_in" yaml:"packets_in"`
	PacketsOut uint64 `json:"packets_out" yaml:"packets_out"`
}

// TrafficStats is the per-user counter snapshot of an online account
type TrafficStats struct {
	Name       string `json:"name" yaml:"name"`
	Online     bool   `json:"online" yaml:"online"`
	Uptime     string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	BytesIn    uint64 `json:"bytes_in" yaml:"bytes_in"`
	BytesOut   uint64 `json:"bytes_out" yaml:"bytes_out"`
	PacketsIn  uint64 `json:"packets_in" yaml:"packets_in"`
	PacketsOut uint64 `json:"packets_out" yaml:"packets_out"`
}

// TotalBytes returns BytesIn + BytesOut.
func (t *TrafficStats) TotalBytes() uint64 {
	return t.BytesIn + t.BytesOut
}
