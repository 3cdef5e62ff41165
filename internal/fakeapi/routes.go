package fakeapi

// Route path constants
const (
	RouteAuthRegister = "/auth/register"
	RouteAuthLogin    = "/auth/login"
	RouteAuthRefresh  = "/auth/refresh"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthMe       = "/auth/me"

	RouteVitals           = "/vitals"
	RouteVital            = "/vitals/{id}"
	RouteSymptoms         = "/symptoms"
	RouteSymptomsAnalyze  = "/symptoms/analyze"
	RouteCycles           = "/cycles"
	RouteCyclesPredict    = "/cycles/predict"
	RouteGoals            = "/goals"
	RouteReminders        = "/reminders"
	RouteReminder         = "/reminders/{id}"
	RouteReminderSend     = "/reminders/{id}/send"
	RouteRemindersPreview = "/reminders/preview"
	RouteSubscriptions    = "/reminders/subscriptions"
	RouteReportsSummary   = "/reports/summary"
	RouteConsent          = "/consent"
	RouteProfileMe        = "/profiles/me"
	RouteAccountExport    = "/account/export"
	RouteAccountDelete    = "/account/delete"
	RouteMedsDecoder      = "/meds/decoder"
)

func (s *Server) initRoutes() {
	public := s.APIMiddleware()
	protected := s.APIMiddleware(s.RequireAuth())

	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), public...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), public...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), public...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), public...))
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), protected...))

	// Resources
	s.RegisterRouteFunc("POST "+RouteVitals, ChainMiddleware(s.CreateVitalHandler(), protected...))
	s.RegisterRouteFunc("GET "+RouteVitals, ChainMiddleware(s.ListVitalsHandler(), protected...))
	s.RegisterRouteFunc("PUT "+RouteVital, ChainMiddleware(s.UpdateVitalHandler(), protected...))
	s.RegisterRouteFunc("DELETE "+RouteVital, ChainMiddleware(s.DeleteVitalHandler(), protected...))

	s.RegisterRouteFunc("POST "+RouteSymptoms, ChainMiddleware(s.CreateSymptomHandler(), protected...))
	s.RegisterRouteFunc("GET "+RouteSymptoms, ChainMiddleware(s.ListSymptomsHandler(), protected...))
	s.RegisterRouteFunc("POST "+RouteSymptomsAnalyze, ChainMiddleware(s.AnalyzeSymptomHandler(), protected...))

	s.RegisterRouteFunc("POST "+RouteCycles, ChainMiddleware(s.AddCycleHandler(), protected...))
	s.RegisterRouteFunc("GET "+RouteCycles, ChainMiddleware(s.ListCyclesHandler(), protected...))
	s.RegisterRouteFunc("GET "+RouteCyclesPredict, ChainMiddleware(s.PredictCycleHandler(), protected...))

	s.RegisterRouteFunc("POST "+RouteGoals, ChainMiddleware(s.CreateGoalHandler(), protected...))
	s.RegisterRouteFunc("GET "+RouteGoals, ChainMiddleware(s.ListGoalsHandler(), protected...))

	s.RegisterRouteFunc("GET "+RouteReminders, ChainMiddleware(s.ListRemindersHandler(), protected...))
	s.RegisterRouteFunc("POST "+RouteReminders, ChainMiddleware(s.ScheduleReminderHandler(), protected...))
	s.RegisterRouteFunc("DELETE "+RouteReminder, ChainMiddleware(s.DeleteReminderHandler(), protected...))
	s.RegisterRouteFunc("POST "+RouteReminderSend, ChainMiddleware(s.SendReminderHandler(), protected...))
	s.RegisterRouteFunc("GET "+RouteRemindersPreview, ChainMiddleware(s.PreviewRemindersHandler(), protected...))
	s.RegisterRouteFunc("POST "+RouteSubscriptions, ChainMiddleware(s.SubscribeHandler(), protected...))

	s.RegisterRouteFunc("GET "+RouteReportsSummary, ChainMiddleware(s.ReportSummaryHandler(), protected...))

	s.RegisterRouteFunc("GET "+RouteConsent, ChainMiddleware(s.ListConsentHandler(), protected...))
	s.RegisterRouteFunc("PUT "+RouteConsent, ChainMiddleware(s.UpsertConsentHandler(), protected...))

	s.RegisterRouteFunc("GET "+RouteProfileMe, ChainMiddleware(s.GetProfileHandler(), protected...))
	s.RegisterRouteFunc("PUT "+RouteProfileMe, ChainMiddleware(s.UpdateProfileHandler(), protected...))

	s.RegisterRouteFunc("GET "+RouteAccountExport, ChainMiddleware(s.ExportAccountHandler(), protected...))
	s.RegisterRouteFunc("POST "+RouteAccountDelete, ChainMiddleware(s.DeleteAccountHandler(), protected...))

	s.RegisterRouteFunc("POST "+RouteMedsDecoder, ChainMiddleware(s.DecodeMedHandler(), protected...))
}
