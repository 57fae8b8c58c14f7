package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldPath        = "path"
	FieldURL         = "url"
	FieldOutcome     = "outcome"
	FieldRemoteSize  = "remote_size"
	FieldLocalSize   = "local_size"
	FieldDuration    = "duration_ms"
	FieldCategory    = "category"
	FieldMonth       = "month"
	FieldEventCount  = "event_count"
	FieldAverage     = "average_severity"
	FieldTotalEvents = "total_events"
	FieldWorkers     = "workers"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentSync      = "sync"
	ComponentStore     = "store"
	ComponentAggregate = "aggregate"
	ComponentReport    = "report"
	ComponentAMQP      = "amqp"
	ComponentSheets    = "sheets"
)

// Operations defines standard operation names
const (
	OpSync      = "sync"
	OpOpen      = "open"
	OpCount     = "count"
	OpAggregate = "aggregate"
	OpRender    = "render"
	OpPublish   = "publish"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeFilesystem    = "filesystem_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSync adds cache synchronization fields
func (f LogFields) WithSync(outcome string, remoteSize, localSize int64, durationMs int64) LogFields {
	f[FieldOutcome] = outcome
	f[FieldRemoteSize] = remoteSize
	f[FieldLocalSize] = localSize
	f[FieldDuration] = durationMs
	return f
}

// WithCell adds the coordinates and values of an aggregation cell
func (f LogFields) WithCell(category string, month int, average float64, count int) LogFields {
	f[FieldCategory] = category
	f[FieldMonth] = month
	f[FieldAverage] = average
	f[FieldEventCount] = count
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
