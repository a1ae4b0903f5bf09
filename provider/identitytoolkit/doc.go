// Package identitytoolkit implements session.IdentityService on the
// Identity Toolkit v1 REST API — the password-based authentication surface
// mobile clients talk to with a public API key. Coded API failures map
// onto the session error taxonomy; everything else classifies as Unknown
// at the manager boundary.
package identitytoolkit
