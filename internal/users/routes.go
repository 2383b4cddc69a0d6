package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bjaus/usersapi/contract"
	"github.com/bjaus/usersapi/dispatch"
)

const tag = "users"

type getRequest struct {
	Path struct {
		ID string `json:"id"`
	} `json:"path"`
}

type createRequest struct {
	Body NewUser `json:"body"`
}

// Register binds the user contracts on the dispatcher's binder and
// attaches their handlers.
func Register(d *dispatch.Dispatcher[*Store]) error {
	b := d.Binder()

	list, err := b.Bind(http.MethodGet, "/users",
		contract.WithResponse(http.StatusOK, "The user list", ListSchema),
		contract.WithSummary("List users"),
		contract.WithDescription("Returns every user in creation order."),
		contract.WithTags(tag),
		contract.WithOperationID("listUsers"),
	)
	if err != nil {
		return err
	}
	if err := dispatch.Handle(d, list, listUsers); err != nil {
		return err
	}

	get, err := b.Bind(http.MethodGet, "/users/{id}",
		contract.WithPathParams(IDParams),
		contract.WithResponse(http.StatusOK, "The user", Schema),
		contract.WithResponse(http.StatusNotFound, "The user was not found", contract.ErrorSchema),
		contract.WithSummary("Get a user"),
		contract.WithDescription("Returns the user with the given ID."),
		contract.WithTags(tag),
		contract.WithOperationID("getUser"),
	)
	if err != nil {
		return err
	}
	if err := dispatch.Handle(d, get, getUser); err != nil {
		return err
	}

	create, err := b.Bind(http.MethodPost, "/users",
		contract.WithBody(NewUserSchema, contract.ContentTypeJSON, contract.ContentTypeYAML),
		contract.WithResponse(http.StatusCreated, "The created user", Schema),
		contract.WithResponse(http.StatusBadRequest, "Validation error", contract.ErrorSchema),
		contract.WithSummary("Create a user"),
		contract.WithDescription("Creates a user. The server assigns id and createdAt."),
		contract.WithTags(tag),
		contract.WithOperationID("createUser"),
	)
	if err != nil {
		return err
	}
	return dispatch.Handle(d, create, createUser)
}

func listUsers(_ context.Context, _ *dispatch.Void, s *Store) (dispatch.Reply, error) {
	users := s.List()
	return dispatch.Respond(http.StatusOK, List{Users: users, Total: len(users)}), nil
}

func getUser(_ context.Context, req *getRequest, s *Store) (dispatch.Reply, error) {
	u, err := s.Get(req.Path.ID)
	if errors.Is(err, ErrNotFound) {
		return dispatch.Respond(http.StatusNotFound, contract.ErrorBody{
			Error:   contract.KindNotFound,
			Message: "User not found",
		}), nil
	}
	if err != nil {
		return dispatch.Reply{}, fmt.Errorf("get user %s: %w", req.Path.ID, err)
	}
	return dispatch.Respond(http.StatusOK, u), nil
}

func createUser(_ context.Context, req *createRequest, s *Store) (dispatch.Reply, error) {
	return dispatch.Respond(http.StatusCreated, s.Create(req.Body)), nil
}
