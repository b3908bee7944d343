package middlewares

const (
	CtxUserID    = "auth.userID"
	CtxUsername  = "auth.username"
	CtxEmail     = "auth.email"
	CtxRole      = "auth.role"
	CtxRequestID = "request_id"
)
