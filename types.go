package routeros

// Re-export types from the types sub-package so callers can depend on the
// root package alone.

import (
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// Type aliases
type (
	Protocol     = types.Protocol
	DeviceConfig = types.DeviceConfig
	Record       = types.Record
	Executor     = types.Executor
	Driver       = types.Driver
	CLIExecutor  = types.CLIExecutor
	SNMPExecutor = types.SNMPExecutor
	Error        = types.Error
	ErrorKind    = types.ErrorKind

	Account       = model.Account
	ActiveSession = model.ActiveSession
	BulkRequest   = model.BulkRequest
	BulkResult    = model.BulkResult
	BulkOutcome   = model.BulkOutcome
	LimitSpec     = model.LimitSpec
)

// Re-export constants
const (
	ProtocolAPI    = types.ProtocolAPI
	ProtocolAPISSL = types.ProtocolAPISSL
	ProtocolSSH    = types.ProtocolSSH
	ProtocolSNMP   = types.ProtocolSNMP
	ProtocolMock   = types.ProtocolMock

	KindConnection     = types.KindConnection
	KindAuthentication = types.KindAuthentication
	KindCommand        = types.KindCommand
	KindValidation     = types.KindValidation
)

// Re-export sentinels
var (
	ErrConnection     = types.ErrConnection
	ErrAuthentication = types.ErrAuthentication
	ErrCommand        = types.ErrCommand
	ErrValidation     = types.ErrValidation
)
