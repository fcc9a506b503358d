package mailer

import "errors"

// ErrSendFailed возвращается при ошибке отправки письма
var ErrSendFailed = errors.New("mailer: failed to send message")
