package guard

// Route path constants
const (
	RouteRoot      = "/"
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"

	RouteVitals    = "/vitals"
	RouteSymptoms  = "/symptoms"
	RouteCycles    = "/cycles"
	RouteGoals     = "/goals"
	RouteReminders = "/reminders"
	RouteReports   = "/reports"
	RouteConsent   = "/consent"
	RouteAccount   = "/account"
	RouteProfile   = "/profile"
	RouteMeds      = "/meds"
)

var publicRoutes = map[string]struct{}{
	RouteLogin:    {},
	RouteRegister: {},
}

// IsPublic reports whether route can be entered without a session.
func IsPublic(route string) bool {
	_, ok := publicRoutes[route]
	return ok
}
