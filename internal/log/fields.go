package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldSession   = "session"
	FieldOperation = "operation"
	FieldCategory  = "category"
	FieldKey       = "key"
	FieldBackend   = "backend"
	FieldAmount    = "amount"
	FieldIndex     = "index"
	FieldRequested = "requested"
	FieldCovered   = "covered"
	FieldPath      = "path"
	FieldVersion   = "version"
	FieldError     = "error"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentTally   = "tally"
	ComponentStorage = "storage"
)

// Operation names.
const (
	OpLoad    = "load"
	OpSubmit  = "submit"
	OpRemove  = "remove"
	OpReset   = "reset"
	OpPersist = "persist"
	OpPurge   = "purge"
	OpRecover = "recover"
	OpMigrate = "migrate"
	OpClose   = "close"
)
