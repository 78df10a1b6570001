package server

import "fmt"

type Code int

const (
	CodeSuccess Code = iota
)

const (
	CodeErrorStart = iota + 100
	CodeProtocol
	CodeMissArgs
	CodeInvalidArgs
	CodeInternalError
	CodeVerifyFailed
	CodeNeedAuth
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeProtocol:
		return "bad request body"
	case CodeMissArgs:
		return "missing arguments"
	case CodeInvalidArgs:
		return "invalid arguments"
	case CodeInternalError:
		return "internal error"
	case CodeVerifyFailed:
		return "verify failed"
	case CodeNeedAuth:
		return "need auth"
	}

	return fmt.Sprintf("unknown error %d", c)
}

func CodeToMessage(code Code, msg string) string {
	if msg != "" {
		return msg
	}

	return code.String()
}
