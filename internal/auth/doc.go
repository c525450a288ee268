// Package auth provides authentication, sessions and CSRF protection.
//
// It supports two authentication modes:
//   - "none": No authentication required (default), all requests act as the
//     seeded default user
//   - "token": API clients send "Authorization: Bearer <token>"; tokens are
//     issued by the create-user command and stored as SHA-256 hashes
//
// # Configuration
//
//	AUTH_MODE=none               # Default, no auth required
//	AUTH_MODE=token              # Bearer tokens required outside public paths
//	AUTH_SESSION_SECRET=<hex>    # CSRF key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h    # Lifetime of the notice session cookie
//	AUTH_SECURE_COOKIES=true     # HTTPS-only cookies
//
// # Sessions
//
// Sessions never carry credentials. They hold the one-shot notices shown
// after a redirect (for example the reason an upload was rejected):
//
//	sessions.AddNotice(ctx, auth.NoticeError, "CSV file must have ...")
//	notices := sessions.PopNotices(ctx)
//
// # Usage
//
//	authService := auth.NewService(usersRepo)
//	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)  // Returns DefaultUserID in "none" mode
package auth
