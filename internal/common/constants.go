package common

const (
	AppStoreService        = "store-service"
	AppAdminService        = "admin-service"
	AppNotificationService = "notification-service"
	AppMainStorefront      = "main storefront"

	AudienceAdmin = "audience-admin"

	AdminSessionCookie = "printforge_admin_session"
	AdminLoginPath     = "/admin/login"
	AdminSessionPath   = "/admin/session"
)
