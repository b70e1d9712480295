// Package server provides HTTP routing, middleware, session cookies and the Google sign-in handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Sessions
//
// A session is three cookies: access_token, refresh_token and user_email. [SessionFromRequest] reads them into a
// [Session] value at the start of a request. [SetSessionCookies] and [ClearSessionCookies] write them.
// The server keeps no session state of its own.
//
// # Browser Sign-in
//
// [AuthHandler] serves /api/auth/login (redirect to Google), /api/auth/callback (code exchange, profile lookup,
// cookies) and /api/auth/logout. Failures redirect to /login?error=<code>.
//
// [Gate] redirects page navigations to /login when signed out and away from /login when signed in.
//
// # Loopback OAuth
//
// [OAuthHandler] serves the CLI's loopback redirect. It validates the state parameter, exchanges the code and sends
// the result through a channel. It only processes one callback.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
