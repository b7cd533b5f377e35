package errors

var (
	ExitMap = map[Code]int{
		CodeBusy:              3,
		CodeProtocolViolation: 4,
		CodeUnknownStatus:     4,
		CodeMalformedResponse: 4,
		CodeRejected:          5,
		CodeTransport:         6,
		CodeTimeout:           7,
		CodeInvalidArgument:   2,
		CodeInternal:          1,
	}
)

// ExitCode returns process exit code mapped to error status code.
func (e *Status) ExitCode() int {
	if code, ok := ExitMap[e.Code]; ok {
		return code
	}
	return 1
}

// ExitCode returns the process exit code for err, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if e := AsStatus(err); e != nil {
		return e.ExitCode()
	}
	return 1
}
