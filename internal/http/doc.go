// Package http exposes the site content API over net/http.
//
// Routes mount under /api by default:
//   - Areas: /areas, /areas/{area}
//   - Content: /content/{area} (admin projection), /site/{area} (public projection)
//   - Catalog: /projects, /projects/{id}, /clients, /clients/{id}
//   - Users: /users, /users/{id}
//   - Auth: /auth/login, /auth/me
//   - Uploads: /uploads (multipart), files served under the uploads route
//   - Contact: /contact
//   - Navigation: /navigation
//
// Writes require an authenticated caller and are rejected with 401 before
// any service is called.
package http
