package model

import (
	"fmt"
	"math"
	"strconv"
)

// BytesPerGB is the binary gigabyte used for data caps.
const BytesPerGB = 1024 * 1024 * 1024

// MaxDataGB is the smallest cap whose byte count no longer fits in a uint64.
const MaxDataGB = 1 << 34

// LimitSpec describes a speed and/or data cap to apply to an account.
// Upload and Download use RouterOS rate syntax ("512k", "10M").
type LimitSpec struct {
	Upload   string  `json:"upload,omitempty" yaml:"upload,omitempty"`
	Download string  `json:"download,omitempty" yaml:"download,omitempty"`
	DataGB   float64 `json:"data_gb,omitempty" yaml:"data_gb,omitempty"`
}

// RateLimit returns the encoded rate-limit value, or "" when no speed is set.
func (l LimitSpec) RateLimit() string {
	return EncodeRate(l.Upload, l.Download)
}

// DataLimitBytes returns the encoded byte cap and whether one applies.
func (l LimitSpec) DataLimitBytes() (uint64, bool) {
	return EncodeDataLimit(l.DataGB)
}

// Validate rejects a data cap that cannot be encoded.
func (l LimitSpec) Validate() error {
	return CheckDataLimit(l.DataGB)
}

// IsEmpty reports whether the spec would change nothing.
func (l LimitSpec) IsEmpty() bool {
	_, ok := l.DataLimitBytes()
	return l.RateLimit() == "" && !ok
}

// EncodeRate builds the "upload/download" rate-limit value.
// A missing side is written as "0" (unlimited); both missing yields "".
func EncodeRate(upload, download string) string {
	switch {
	case upload != "" && download != "":
		return upload + "/" + download
	case download != "":
		return "0/" + download
	case upload != "":
		return upload + "/0"
	}
	return ""
}

// CheckDataLimit rejects NaN, infinities and caps of MaxDataGB or more.
func CheckDataLimit(gb float64) error {
	if math.IsNaN(gb) || math.IsInf(gb, 0) || gb >= MaxDataGB {
		return fmt.Errorf("data limit %v GB out of range (must be below %d)", gb, int64(MaxDataGB))
	}
	return nil
}

// EncodeDataLimit converts gigabytes to a byte count, truncating fractions.
// Zero or negative input means no limit should be applied; so does input
// CheckDataLimit rejects.
func EncodeDataLimit(gb float64) (uint64, bool) {
	if CheckDataLimit(gb) != nil || gb <= 0 {
		return 0, false
	}
	return uint64(gb * BytesPerGB), true
}

// DataLimitComment renders the descriptive comment used where the device has
// no byte-limit field (PPP secrets). The device does not enforce it.
func DataLimitComment(gb float64) string {
	return fmt.Sprintf("data limit: %sGB", strconv.FormatFloat(gb, 'f', -1, 64))
}
