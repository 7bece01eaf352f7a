package reconcile_expired

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("reconcile_expired: internal error")
