package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrParameterInvalid = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrNotFound         = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 转换任务错误码
	ErrInvalidRequest   = &Errno{Code: 20001, Message: "Malformed source reference or quality list"}
	ErrInvalidQuality   = &Errno{Code: 20002, Message: "Unknown quality label"}
	ErrLaunch           = &Errno{Code: 20003, Message: "Transcoder binary could not be started"}
	ErrTranscodeFailed  = &Errno{Code: 20004, Message: "Transcode process exited with an error"}
	ErrIncompleteOutput = &Errno{Code: 20005, Message: "Expected rendition output is missing"}
	ErrPublishFailed    = &Errno{Code: 20006, Message: "Publishing job output failed"}
	ErrCancelled        = &Errno{Code: 20007, Message: "Job was cancelled"}
	ErrQueueFull        = &Errno{Code: 20008, Message: "Job queue is full"}
	ErrJobNotFound      = &Errno{Code: 20009, Message: "Conversion job not found"}
)
