package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrOperation = "operation"
	AttrOutcome   = "outcome"
)

// Operation names recorded by the lineup service.
const (
	OpGenerate  = "generate"
	OpCandidate = "candidate"
	OpValidate  = "validate"
)
