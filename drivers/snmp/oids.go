package snmp

// MIB-II, HOST-RESOURCES and MIKROTIK-MIB objects read by the driver.
const (
	oidSysDescr  = "1.3.6.1.2.1.1.1.0"
	oidSysUpTime = "1.3.6.1.2.1.1.3.0"
	oidSysName   = "1.3.6.1.2.1.1.5.0"

	// ifTable / ifXTable columns
	oidIfType        = "1.3.6.1.2.1.2.2.1.3"
	oidIfMtu         = "1.3.6.1.2.1.2.2.1.4"
	oidIfPhysAddress = "1.3.6.1.2.1.2.2.1.6"
	oidIfAdminStatus = "1.3.6.1.2.1.2.2.1.7"
	oidIfOperStatus  = "1.3.6.1.2.1.2.2.1.8"
	oidIfName        = "1.3.6.1.2.1.31.1.1.1.1"
	oidIfHCInOctets  = "1.3.6.1.2.1.31.1.1.1.6"
	oidIfHCOutOctets = "1.3.6.1.2.1.31.1.1.1.10"

	// hrStorageEntry, indexed as <column>.<storage index>
	oidHrStorageEntry  = "1.3.6.1.2.1.25.2.3.1"
	oidHrProcessorLoad = "1.3.6.1.2.1.25.3.3.1.2"

	oidMtxrLicVersion = "1.3.6.1.4.1.14988.1.1.4.4.0"
	oidMtxrBoardName  = "1.3.6.1.4.1.14988.1.1.7.8.0"
)

// hrStorageEntry columns and the fixed indexes RouterOS uses for RAM and the system disk.
const (
	hrStorageAllocationUnits = "4"
	hrStorageSize            = "5"
	hrStorageUsed            = "6"

	storageMemory = "65536"
	storageDisk   = "131072"
)

// interfaceColumns is walked column by column to build /interface records.
var interfaceColumns = []string{
	oidIfName,
	oidIfType,
	oidIfMtu,
	oidIfPhysAddress,
	oidIfAdminStatus,
	oidIfOperStatus,
	oidIfHCInOctets,
	oidIfHCOutOctets,
}

// ifTypeNames maps IANAifType values to RouterOS interface types.
var ifTypeNames = map[uint64]string{
	6:   "ether",
	23:  "ppp",
	24:  "loopback",
	71:  "wlan",
	131: "tunnel",
	135: "vlan",
	209: "bridge",
}
