// Package dispatch serves the contracts of a contract.Binder over HTTP.
//
// Each request runs through a fixed sequence: match the method and path
// to a contract, validate the path, query and body against their schemas,
// call the handler, validate the reply against the schema declared for
// its status, and serialize the normalized value. Invalid input is
// answered with 400 and the handler never runs. A reply that breaks the
// contract is logged and answered with an opaque 500.
//
//	d := dispatch.New(binder, store, dispatch.WithLogger(logger))
//	err := dispatch.Handle(d, getUser, func(ctx context.Context, req *GetUserRequest, s *users.Store) (dispatch.Reply, error) {
//		u, err := s.Get(req.Path.ID)
//		if err != nil {
//			return dispatch.Respond(http.StatusNotFound, contract.ErrorBody{Error: contract.KindNotFound}), nil
//		}
//		return dispatch.Respond(http.StatusOK, u), nil
//	})
package dispatch
