// Package web renders the gallery and sign-in pages.
//
// # Pages
//
//	GET /       gallery: player plus grid or list of videos (requires a session)
//	GET /login  sign-in page with an optional error banner
//
// The gallery is rendered on the server from the same [services.MediaService] the JSON endpoint uses. View state
// lives in the query string rather than in client script:
//
//	view=grid|list  gallery layout, grid by default
//	v=<id>          selected video, first video by default
//
// An upstream failure renders the page with an error block and a "Try again" link back to the same URL.
//
// # Sign-in Errors
//
// The callback redirects to /login?error=<code>. [LoginErrorMessage] turns the code into the banner text.
package web
