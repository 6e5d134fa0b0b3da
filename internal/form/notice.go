package form

// NoticeLevel distinguishes informational notices from error banners.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a user-visible message produced by a form action. Error
// notices are non-blocking; the form stays editable.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Notice messages.
const (
	MsgUpdated        = "settings updated"
	MsgActivationSent = "activation email sent"
	MsgImageRequired  = "image required"
	MsgGenericError   = "something went wrong"
)

func infoNotice(msg string) Notice {
	return Notice{Level: NoticeInfo, Message: msg}
}

func errorNotice() Notice {
	return Notice{Level: NoticeError, Message: MsgGenericError}
}
