package snmp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
)

// buildResource assembles a /system/resource record from the scalar GETs,
// the hrProcessorLoad walk and the hrStorageEntry walk.
func buildResource(scalars, cpuLoads, storage map[string]interface{}) types.Record {
	rec := types.Record{}

	if v, ok := common.GetSNMPResult(scalars, oidSysUpTime); ok {
		if ticks, ok := common.ParseUint64SNMPValue(v); ok {
			rec["uptime"] = common.FormatTimeTicks(ticks)
		}
	}
	if v, ok := common.GetSNMPResult(scalars, oidMtxrLicVersion); ok {
		if s, ok := common.ParseStringSNMPValue(v); ok && s != "" {
			rec["version"] = s
		}
	}
	if v, ok := common.GetSNMPResult(scalars, oidMtxrBoardName); ok {
		if s, ok := common.ParseStringSNMPValue(v); ok && s != "" {
			rec["board-name"] = s
		}
	}

	if len(cpuLoads) > 0 {
		var sum, n uint64
		for _, v := range cpuLoads {
			if load, ok := common.ParseUint64SNMPValue(v); ok {
				sum += load
				n++
			}
		}
		if n > 0 {
			rec["cpu-load"] = strconv.FormatUint(sum/n, 10)
			rec["cpu-count"] = strconv.FormatUint(n, 10)
		}
	}

	if total, used, ok := storageBytes(storage, storageMemory); ok {
		rec["total-memory"] = strconv.FormatUint(total, 10)
		rec["free-memory"] = strconv.FormatUint(total-used, 10)
	}
	if total, used, ok := storageBytes(storage, storageDisk); ok {
		rec["total-hdd-space"] = strconv.FormatUint(total, 10)
		rec["free-hdd-space"] = strconv.FormatUint(total-used, 10)
	}
	return rec
}

// storageBytes returns size and used for one hrStorage index, scaled to bytes.
func storageBytes(storage map[string]interface{}, index string) (total, used uint64, ok bool) {
	column := func(col string) (uint64, bool) {
		v, found := storage[col+"."+index]
		if !found {
			return 0, false
		}
		return common.ParseUint64SNMPValue(v)
	}

	units, ok := column(hrStorageAllocationUnits)
	if !ok || units == 0 {
		return 0, 0, false
	}
	size, ok := column(hrStorageSize)
	if !ok {
		return 0, 0, false
	}
	usedUnits, _ := column(hrStorageUsed)
	if usedUnits > size {
		usedUnits = size
	}
	return size * units, usedUnits * units, true
}

// buildInterfaces joins ifTable/ifXTable columns (column OID -> index -> value)
// into /interface records ordered by ifIndex.
func buildInterfaces(columns map[string]map[string]interface{}) []types.Record {
	names := columns[oidIfName]
	indexes := make([]int, 0, len(names))
	for idx := range names {
		if n, err := strconv.Atoi(idx); err == nil {
			indexes = append(indexes, n)
		}
	}
	sort.Ints(indexes)

	records := make([]types.Record, 0, len(indexes))
	for _, n := range indexes {
		idx := strconv.Itoa(n)
		rec := types.Record{".id": fmt.Sprintf("*%X", n)}

		if s, ok := common.ParseStringSNMPValue(names[idx]); ok {
			rec["name"] = s
		}
		if v, ok := common.ParseUint64SNMPValue(columns[oidIfType][idx]); ok {
			rec["type"] = interfaceType(v)
		}
		if v, ok := common.ParseUint64SNMPValue(columns[oidIfMtu][idx]); ok && v > 0 {
			rec["mtu"] = strconv.FormatUint(v, 10)
		}
		if mac := common.FormatMAC(columns[oidIfPhysAddress][idx]); mac != "" {
			rec["mac-address"] = mac
		}
		if v, ok := common.ParseUint64SNMPValue(columns[oidIfAdminStatus][idx]); ok {
			rec["disabled"] = strconv.FormatBool(v == 2)
		}
		if v, ok := common.ParseUint64SNMPValue(columns[oidIfOperStatus][idx]); ok {
			rec["running"] = strconv.FormatBool(v == 1)
		}
		if v, ok := common.ParseUint64SNMPValue(columns[oidIfHCInOctets][idx]); ok {
			rec["rx-byte"] = strconv.FormatUint(v, 10)
		}
		if v, ok := common.ParseUint64SNMPValue(columns[oidIfHCOutOctets][idx]); ok {
			rec["tx-byte"] = strconv.FormatUint(v, 10)
		}
		records = append(records, rec)
	}
	return records
}

func interfaceType(ifType uint64) string {
	if name, ok := ifTypeNames[ifType]; ok {
		return name
	}
	return "if-type-" + strconv.FormatUint(ifType, 10)
}

// filterRecords applies "?field=value" query params to print results.
// Attribute params are ignored since every supported command is a print.
func filterRecords(records []types.Record, params map[string]string) []types.Record {
	queries := map[string]string{}
	for k, v := range params {
		if strings.HasPrefix(k, "?") {
			queries[strings.TrimPrefix(k, "?")] = v
		}
	}
	if len(queries) == 0 {
		return records
	}

	out := records[:0:0]
	for _, rec := range records {
		match := true
		for k, v := range queries {
			if rec[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, rec)
		}
	}
	return out
}

// walkIndex strips root from a PDU name, leaving the instance suffix.
func walkIndex(name, root string) string {
	name = strings.TrimPrefix(name, ".")
	root = strings.TrimPrefix(root, ".")
	return strings.TrimPrefix(strings.TrimPrefix(name, root), ".")
}
