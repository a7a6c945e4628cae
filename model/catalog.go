package model

// Profile is a PPP profile or a Hotspot user profile.
type Profile struct {
	ID                string `json:"id" yaml:"id"`
	Class             Class  `json:"class" yaml:"class"`
	Name              string `json:"name" yaml:"name"`
	LocalAddress      string `json:"local_address,omitempty" yaml:"local_address,omitempty"`
	RemoteAddress     string `json:"remote_address,omitempty" yaml:"remote_address,omitempty"`
	RateLimit         string `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	SessionTimeout    string `json:"session_timeout,omitempty" yaml:"session_timeout,omitempty"`
	IdleTimeout       string `json:"idle_timeout,omitempty" yaml:"idle_timeout,omitempty"`
	KeepaliveTimeout  string `json:"keepalive_timeout,omitempty" yaml:"keepalive_timeout,omitempty"`
	StatusAutorefresh string `json:"status_autorefresh,omitempty" yaml:"status_autorefresh,omitempty"`
	SharedUsers       string `json:"shared_users,omitempty" yaml:"shared_users,omitempty"`
	OnlyOne           string `json:"only_one,omitempty" yaml:"only_one,omitempty"`
}

// HotspotServer is one /ip/hotspot server instance
type HotspotServer struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Interface   string `json:"interface" yaml:"interface"`
	AddressPool string `json:"address_pool" yaml:"address_pool"`
	Profile     string `json:"profile" yaml:"profile"`
	Disabled    bool   `json:"disabled" yaml:"disabled"`
}

// Interface is a network interface as listed by /interface
type Interface struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	MACAddress string `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	MTU        string `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Running    bool   `json:"running" yaml:"running"`
	Disabled   bool   `json:"disabled" yaml:"disabled"`
	RxBytes    uint64 `json:"rx_bytes,omitempty" yaml:"rx_bytes,omitempty"`
	TxBytes    uint64 `json:"tx_bytes,omitempty" yaml:"tx_bytes,omitempty"`
}

// IPAddress is an /ip/address entry
type IPAddress struct {
	ID        string `json:"id" yaml:"id"`
	Address   string `json:"address" yaml:"address"`
	Network   string `json:"network" yaml:"network"`
	Interface string `json:"interface" yaml:"interface"`
	Disabled  bool   `json:"disabled" yaml:"disabled"`
	Dynamic   bool   `json:"dynamic" yaml:"dynamic"`
}

// SystemResource is the /system/resource snapshot.
// Memory and disk figures are bytes, CPULoad is a percentage.
type SystemResource struct {
	CPULoad       uint64 `json:"cpu_load" yaml:"cpu_load"`
	CPUCount      uint64 `json:"cpu_count,omitempty" yaml:"cpu_count,omitempty"`
	FreeMemory    uint64 `json:"free_memory" yaml:"free_memory"`
	TotalMemory   uint64 `json:"total_memory" yaml:"total_memory"`
	FreeHDDSpace  uint64 `json:"free_hdd_space" yaml:"free_hdd_space"`
	TotalHDDSpace uint64 `json:"total_hdd_space" yaml:"total_hdd_space"`
	Uptime        string `json:"uptime" yaml:"uptime"`
	Version       string `json:"version" yaml:"version"`
	BoardName     string `json:"board_name" yaml:"board_name"`
	Architecture  string `json:"architecture" yaml:"architecture"`
}

// MemoryUsedPercent returns used memory as a percentage, or 0 when total is unknown.
func (r *SystemResource) MemoryUsedPercent() float64 {
	if r.TotalMemory == 0 || r.FreeMemory > r.TotalMemory {
		return 0
	}
	return float64(r.TotalMemory-r.FreeMemory) * 100 / float64(r.TotalMemory)
}
