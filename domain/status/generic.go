package status

// GenericSegment owns the reserved range [100000, 200000).
const GenericSegment = 100

// Generic codes shared by every module.
var (
	Success              = Define(0, 0, "request succeeded")
	Error                = Define(GenericSegment, 1, "operation failed")
	Fallback             = Define(GenericSegment, 2, "service degraded")
	ResourceNotFound     = Define(GenericSegment, 3, "requested resource does not exist")
	MethodNotAllowed     = Define(GenericSegment, 4, "request method not supported")
	InternalException    = Define(GenericSegment, 5, "the service seems to have run into a problem")
	NullResult           = Define(GenericSegment, 6, "empty result set")
	ConfigValidate       = Define(GenericSegment, 12, "invalid configuration parameter: {0}")
	ParamValidate        = Define(GenericSegment, 13, "invalid request parameter")
	TimeoutOrSystemError = Define(GenericSegment, 14, "timeout or system error")
)
