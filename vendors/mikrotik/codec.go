package mikrotik

import (
	"strconv"

	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// decodeAccount maps a secret/user record onto the model. Name-like fields
// fall back to the unknown label, optional strings to "". A Hotspot user
// without a profile is on the default one.
func decodeAccount(class model.Class, r types.Record, unknown string) model.Account {
	a := model.Account{
		ID:              r.Get(fID, ""),
		Class:           class,
		Name:            r.Get(fName, unknown),
		Password:        r.Get(fPassword, ""),
		Profile:         r.Get(fProfile, unknown),
		Address:         r.Get(fAddress, ""),
		LocalAddress:    r.Get(fLocalAddress, ""),
		RemoteAddress:   r.Get(fRemoteAddress, ""),
		MACAddress:      r.Get(fMACAddress, ""),
		Comment:         r.Get(fComment, ""),
		Disabled:        r.Bool(fDisabled),
		RateLimit:       r.Get(fRateLimit, ""),
		LimitUptime:     r.Get(fLimitUptime, ""),
		LimitBytesIn:    r.Uint(fLimitBytesIn),
		LimitBytesOut:   r.Uint(fLimitBytesOut),
		LimitBytesTotal: r.Uint(fLimitBytesTotal),
		LastLoggedOut:   r.Get(fLastLoggedOut, ""),
	}
	switch class {
	case model.ClassPPP:
		a.Service = r.Get(fService, unknown)
	case model.ClassHotspot:
		a.Profile = r.Get(fProfile, DefaultHotspotProfile)
		a.Server = r.Get(fServer, DefaultHotspotServer)
	}
	return a
}

// encodeAccount builds add parameters, applying the class defaults and
// dropping empty optional values.
func encodeAccount(s schema, a *model.Account) map[string]string {
	params := map[string]string{
		fName:     a.Name,
		fPassword: a.Password,
	}
	put := func(field, value string) {
		if value != "" && s.accepts(field) {
			params[field] = value
		}
	}

	switch s.class {
	case model.ClassPPP:
		put(fProfile, orDefault(a.Profile, DefaultPPPProfile))
		put(fService, orDefault(a.Service, DefaultPPPService))
		put(fLocalAddress, a.LocalAddress)
		put(fRemoteAddress, a.RemoteAddress)
	case model.ClassHotspot:
		put(fProfile, orDefault(a.Profile, DefaultHotspotProfile))
		put(fServer, orDefault(a.Server, DefaultHotspotServer))
		put(fAddress, a.Address)
		put(fMACAddress, a.MACAddress)
		put(fLimitUptime, a.LimitUptime)
		put(fLimitBytesIn, formatUint(a.LimitBytesIn))
		put(fLimitBytesOut, formatUint(a.LimitBytesOut))
		put(fLimitBytesTotal, formatUint(a.LimitBytesTotal))
	}
	put(fComment, a.Comment)
	put(fRateLimit, a.RateLimit)
	if a.Disabled {
		params[fDisabled] = "yes"
	}
	return params
}

func decodeActive(s schema, r types.Record, unknown string) model.ActiveSession {
	sess := model.ActiveSession{
		ID:         r.Get(fID, ""),
		Class:      s.class,
		Name:       r.Get(s.activeName, unknown),
		Address:    r.Get(fAddress, unknown),
		Uptime:     r.Get(fUptime, ""),
		CallerID:   r.Get(fCallerID, ""),
		MACAddress: r.Get(fMACAddress, ""),
		Server:     r.Get(fServer, ""),
		BytesIn:    r.Uint(fBytesIn),
		BytesOut:   r.Uint(fBytesOut),
		PacketsIn:  r.Uint(fPacketsIn),
		PacketsOut: r.Uint(fPacketsOut),
	}
	if s.class == model.ClassHotspot {
		sess.Service = string(model.ClassHotspot)
	} else {
		sess.Service = r.Get(fService, unknown)
	}
	return sess
}

func decodeProfile(class model.Class, r types.Record, unknown string) model.Profile {
	return model.Profile{
		ID:                r.Get(fID, ""),
		Class:             class,
		Name:              r.Get(fName, unknown),
		LocalAddress:      r.Get(fLocalAddress, ""),
		RemoteAddress:     r.Get(fRemoteAddress, ""),
		RateLimit:         r.Get(fRateLimit, ""),
		SessionTimeout:    r.Get(fSessionTimeout, ""),
		IdleTimeout:       r.Get(fIdleTimeout, ""),
		KeepaliveTimeout:  r.Get(fKeepaliveTimeout, ""),
		StatusAutorefresh: r.Get(fStatusAutorefresh, ""),
		SharedUsers:       r.Get(fSharedUsers, ""),
		OnlyOne:           r.Get(fOnlyOne, ""),
	}
}

func decodeServer(r types.Record, unknown string) model.HotspotServer {
	return model.HotspotServer{
		ID:          r.Get(fID, ""),
		Name:        r.Get(fName, unknown),
		Interface:   r.Get(fInterface, unknown),
		AddressPool: r.Get(fAddressPool, ""),
		Profile:     r.Get(fProfile, unknown),
		Disabled:    r.Bool(fDisabled),
	}
}

func decodeInterface(r types.Record, unknown string) model.Interface {
	return model.Interface{
		ID:         r.Get(fID, ""),
		Name:       r.Get(fName, unknown),
		Type:       r.Get(fType, unknown),
		MACAddress: r.Get(fMACAddress, ""),
		MTU:        r.Get(fMTU, ""),
		Comment:    r.Get(fComment, ""),
		Running:    r.Bool(fRunning),
		Disabled:   r.Bool(fDisabled),
		RxBytes:    r.Uint(fRxByte),
		TxBytes:    r.Uint(fTxByte),
	}
}

func decodeIPAddress(r types.Record, unknown string) model.IPAddress {
	return model.IPAddress{
		ID:        r.Get(fID, ""),
		Address:   r.Get(fAddress, unknown),
		Network:   r.Get(fNetwork, ""),
		Interface: r.Get(fInterface, unknown),
		Disabled:  r.Bool(fDisabled),
		Dynamic:   r.Bool(fDynamic),
	}
}

func decodeResource(r types.Record, unknown string) model.SystemResource {
	return model.SystemResource{
		CPULoad:       r.Uint(fCPULoad),
		CPUCount:      r.Uint(fCPUCount),
		FreeMemory:    r.Uint(fFreeMemory),
		TotalMemory:   r.Uint(fTotalMemory),
		FreeHDDSpace:  r.Uint(fFreeHDDSpace),
		TotalHDDSpace: r.Uint(fTotalHDDSpace),
		Uptime:        r.Get(fUptime, unknown),
		Version:       r.Get(fVersion, unknown),
		BoardName:     r.Get(fBoardName, unknown),
		Architecture:  r.Get(fArchitecture, unknown),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func formatUint(v uint64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(v, 10)
}
