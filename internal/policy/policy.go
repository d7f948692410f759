// Package policy decides whether a caller may perform an operation,
// based on the role claim and authentication state supplied by the
// identity provider. It owns no credential validation.
package policy

// Roles with write access to documents.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
)

// CanWrite reports whether the given role may create or mutate
// documents. Only Admin and Editor qualify; an empty role (an
// unauthenticated caller) is denied.
func CanWrite(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}

// CanViewReports reports whether the caller may read the document
// report projection. Reports are an administrative surface.
func CanViewReports(role string) bool {
	return role == RoleAdmin
}

// CanRead reports whether a caller may read a document's metadata or
// content. Public documents are readable by anyone. Private documents
// require an authenticated caller; deliberately, any authenticated
// caller qualifies, with no ownership restriction.
func CanRead(isPublic, isAuthenticated bool) bool {
	return isPublic || isAuthenticated
}
