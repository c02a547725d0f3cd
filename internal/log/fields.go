package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldAccountID    = "account_id"
	FieldGoalID       = "goal_id"
	FieldSubGoalID    = "sub_goal_id"
	FieldAllocationID = "allocation_id"
	FieldAmount       = "amount"
	FieldOutcome      = "outcome"
	FieldRevision     = "revision"
	FieldMonth        = "month"
	FieldOwner        = "owner"
	FieldBackend      = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentBudget  = "budget"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpAssign     = "assign"
	OpAutoAssign = "auto_assign"
	OpSanitize   = "sanitize"
	OpDerive     = "derive"
	OpSave       = "save"
	OpLoad       = "load"
	OpSync       = "sync"
	OpExport     = "export"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
