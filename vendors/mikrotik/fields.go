package mikrotik

import "github.com/nanoncore/nano-routeros/model"

// RouterOS menu paths
const (
	PathPPPSecret      = "/ppp/secret"
	PathPPPActive      = "/ppp/active"
	PathPPPProfile     = "/ppp/profile"
	PathHotspotUser    = "/ip/hotspot/user"
	PathHotspotActive  = "/ip/hotspot/active"
	PathHotspotProfile = "/ip/hotspot/user/profile"
	PathHotspotServer  = "/ip/hotspot"
	PathInterface      = "/interface"
	PathIPAddress      = "/ip/address"
	PathSystemResource = "/system/resource"
	PathSystemIdentity = "/system/identity"
)

// Command verbs
const (
	verbPrint   = "print"
	verbAdd     = "add"
	verbSet     = "set"
	verbRemove  = "remove"
	verbEnable  = "enable"
	verbDisable = "disable"
)

func cmd(path, verb string) string { return path + "/" + verb }

// query turns a wire field into a print filter key.
func query(field string) string { return "?" + field }

// Wire field names. RouterOS uses hyphenated attribute names.
const (
	fID                = ".id"
	fRet               = "ret"
	fName              = "name"
	fUser              = "user"
	fPassword          = "password"
	fProfile           = "profile"
	fService           = "service"
	fServer            = "server"
	fAddress           = "address"
	fLocalAddress      = "local-address"
	fRemoteAddress     = "remote-address"
	fMACAddress        = "mac-address"
	fCallerID          = "caller-id"
	fComment           = "comment"
	fDisabled          = "disabled"
	fDynamic           = "dynamic"
	fRateLimit         = "rate-limit"
	fLimitUptime       = "limit-uptime"
	fLimitBytesIn      = "limit-bytes-in"
	fLimitBytesOut     = "limit-bytes-out"
	fLimitBytesTotal   = "limit-bytes-total"
	fLastLoggedOut     = "last-logged-out"
	fUptime            = "uptime"
	fBytesIn           = "bytes-in"
	fBytesOut          = "bytes-out"
	fPacketsIn         = "packets-in"
	fPacketsOut        = "packets-out"
	fSessionTimeout    = "session-timeout"
	fIdleTimeout       = "idle-timeout"
	fKeepaliveTimeout  = "keepalive-timeout"
	fStatusAutorefresh = "status-autorefresh"
	fSharedUsers       = "shared-users"
	fOnlyOne           = "only-one"
	fInterface         = "interface"
	fAddressPool       = "address-pool"
	fType              = "type"
	fRunning           = "running"
	fMTU               = "mtu"
	fRxByte            = "rx-byte"
	fTxByte            = "tx-byte"
	fNetwork           = "network"
	fCPULoad           = "cpu-load"
	fCPUCount          = "cpu-count"
	fFreeMemory        = "free-memory"
	fTotalMemory       = "total-memory"
	fFreeHDDSpace      = "free-hdd-space"
	fTotalHDDSpace     = "total-hdd-space"
	fVersion           = "version"
	fBoardName         = "board-name"
	fArchitecture      = "architecture-name"
)

// Defaults applied when creating accounts without an explicit value.
const (
	DefaultPPPProfile     = "default"
	DefaultPPPService     = "any"
	DefaultHotspotProfile = "default"
	DefaultHotspotServer  = "all"
	DefaultUnknownLabel   = "unknown"
)

// schema is the fixed wire layout of one account class.
type schema struct {
	class       model.Class
	accountPath string
	activePath  string
	profilePath string
	// activeName is the field carrying the user name on the active menu
	activeName string
	// writable is the exhaustive set of fields an account of this class accepts
	writable []string
}

var schemas = map[model.Class]schema{
	model.ClassPPP: {
		class:       model.ClassPPP,
		accountPath: PathPPPSecret,
		activePath:  PathPPPActive,
		profilePath: PathPPPProfile,
		activeName:  fName,
		writable: []string{
			fName, fPassword, fProfile, fService, fLocalAddress, fRemoteAddress,
			fCallerID, fComment, fDisabled, fRateLimit,
		},
	},
	model.ClassHotspot: {
		class:       model.ClassHotspot,
		accountPath: PathHotspotUser,
		activePath:  PathHotspotActive,
		profilePath: PathHotspotProfile,
		activeName:  fUser,
		writable: []string{
			fName, fPassword, fProfile, fServer, fAddress, fMACAddress, fComment,
			fDisabled, fRateLimit, fLimitUptime, fLimitBytesIn, fLimitBytesOut, fLimitBytesTotal,
		},
	},
}

func schemaFor(class model.Class) (schema, bool) {
	s, ok := schemas[class]
	return s, ok
}

func (s schema) accepts(field string) bool {
	for _, f := range s.writable {
		if f == field {
			return true
		}
	}
	return false
}
