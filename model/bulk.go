package model

// NameType selects how bulk account names are produced
type NameType string

const (
	NameTypePrefix NameType = "prefix"
	NameTypeCustom NameType = "custom"
)

// BulkStatus is the per-account result of a bulk run
type BulkStatus string

const (
	BulkCreated BulkStatus = "created"
	BulkFailed  BulkStatus = "failed"
)

// BulkRequest describes a batch of accounts to create.
type BulkRequest struct {
	Class    Class
	NameType NameType
	// Prefix and Count drive prefix mode: Prefix001..PrefixNNN
	Prefix string
	Count  int
	// Names drives custom mode; Count is taken from len(Names)
	Names          []string
	PasswordLength int
	Profile        string
	// Server is used for Hotspot accounts only
	Server string
	// Comment is written on every created account
	Comment string
}

// BulkOutcome is the result for one account of a batch
type BulkOutcome struct {
	Username string     `json:"username" yaml:"username"`
	Password string     `json:"password" yaml:"password"`
	Profile  string     `json:"profile" yaml:"profile"`
	Server   string     `json:"server,omitempty" yaml:"server,omitempty"`
	Class    Class      `json:"class" yaml:"class"`
	Status   BulkStatus `json:"status" yaml:"status"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
	Code     string     `json:"code,omitempty" yaml:"code,omitempty"`
}

// BulkResult summarizes a bulk provisioning run
type BulkResult struct {
	BatchID   string        `json:"batch_id" yaml:"batch_id"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Results   []BulkOutcome `json:"results" yaml:"results"`
}
