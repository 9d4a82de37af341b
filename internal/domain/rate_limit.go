package domain

// Rate limit scopes. Each scope keeps its own per-IP budget.
const (
	RateLimitScopeLogin    = "login"
	RateLimitScopeRegister = "register"
)

// RateLimitKey is the counter key for requests from ip under scope.
func RateLimitKey(scope, ip string) string {
	return "ratelimit:" + scope + ":" + ip
}
