package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldThreadID      = "thread_id"
	FieldTransactionID = "transaction_id"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldKind          = "kind"
	FieldPeriod        = "period"
	FieldTool          = "tool"
	FieldModel         = "model"
)

// Components defines standard component names.
const (
	ComponentApp        = "app"
	ComponentStorage    = "storage"
	ComponentCheckpoint = "checkpoint"
	ComponentAgent      = "agent"
	ComponentTools      = "tools"
	ComponentCache      = "cache"
	ComponentReport     = "report"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpAsk      = "ask"
	OpDispatch = "dispatch"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
