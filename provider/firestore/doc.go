// Package firestore implements session.ProfileStore on the Firestore v1
// REST documents API, bearer-authenticated with the identity service's ID
// token the way mobile clients access their own documents.
package firestore
