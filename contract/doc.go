// Package contract binds HTTP methods and path templates to the schemas
// that govern their input and output.
//
// A Binder collects contracts at startup and rejects conflicting or
// malformed definitions:
//
//	b := contract.NewBinder(contract.WithTitle("usersapi"), contract.WithVersion("1.0.0"))
//	b.MustBind(http.MethodGet, "/users/{id}",
//		contract.WithPathParams(users.Schema.Pick("id")),
//		contract.WithResponse(http.StatusOK, "The user", users.Schema),
//		contract.WithResponse(http.StatusNotFound, "No such user", contract.ErrorSchema),
//	)
//
// The same bindings drive request matching (Match) and the OpenAPI
// document (Export), so the document never drifts from what is served.
package contract
