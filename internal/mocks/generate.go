package mocks

//go:generate mockgen -destination=mock_executor.go -package=mocks github.com/nanoncore/nano-routeros/types Executor
