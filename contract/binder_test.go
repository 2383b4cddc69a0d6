package contract_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/usersapi/contract"
	"github.com/bjaus/usersapi/schema"
)

var user = schema.Object(
	schema.Field("id", schema.String()),
	schema.Field("name", schema.String().Min(1)),
)

func ok200() contract.Option {
	return contract.WithResponse(http.StatusOK, "ok", user)
}

func TestBind(t *testing.T) {
	t.Parallel()

	b := contract.NewBinder()
	c, err := b.Bind("get", "/users/{id}",
		contract.WithPathParams(user.Pick("id")),
		ok200(),
		contract.WithResponse(http.StatusNotFound, "", contract.ErrorSchema),
		contract.WithSummary("Get a user"),
		contract.WithTags("users"),
	)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, c.Method)
	assert.Equal(t, "GET /users/{id}", c.String())
	assert.Equal(t, []string{"id"}, c.Params())
	assert.Equal(t, "getUsersById", c.OperationID)
	assert.Equal(t, []int{200, 400, 404}, c.Statuses())

	notFound, ok := c.Response(http.StatusNotFound)
	require.True(t, ok)
	assert.Equal(t, "Not Found", notFound.Description)
	assert.Equal(t, contract.ContentTypeJSON, notFound.ContentType)

	badRequest, ok := c.Response(http.StatusBadRequest)
	require.True(t, ok, "declared input documents 400")
	assert.Equal(t, contract.ErrorSchema, badRequest.Schema)

	assert.Equal(t, []*contract.Contract{c}, b.Contracts())
}

func TestBind_noInputNoImplicit400(t *testing.T) {
	t.Parallel()

	c := contract.NewBinder().MustBind(http.MethodGet, "/users", ok200())

	_, ok := c.Response(http.StatusBadRequest)
	assert.False(t, ok)
	assert.Equal(t, "getUsers", c.OperationID)
}

func TestBind_explicit400Kept(t *testing.T) {
	t.Parallel()

	custom := schema.Object(schema.Field("error", schema.String()))
	c := contract.NewBinder().MustBind(http.MethodPost, "/users",
		contract.WithBody(user),
		contract.WithResponse(http.StatusCreated, "created", user),
		contract.WithResponse(http.StatusBadRequest, "bad", custom),
	)

	r, ok := c.Response(http.StatusBadRequest)
	require.True(t, ok)
	assert.Equal(t, "bad", r.Description)
	assert.Equal(t, []string{contract.ContentTypeJSON}, c.Input.BodyTypes)
}

func TestBind_responseType(t *testing.T) {
	t.Parallel()

	c := contract.NewBinder().MustBind(http.MethodGet, "/users",
		ok200(),
		contract.WithResponseType(http.StatusOK, contract.ContentTypeYAML),
		contract.WithResponse(http.StatusNoContent, "", nil),
	)

	r, _ := c.Response(http.StatusOK)
	assert.Equal(t, contract.ContentTypeYAML, r.ContentType)
	r, _ = c.Response(http.StatusNoContent)
	assert.Empty(t, r.ContentType)
}

func TestBind_errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		method string
		path   string
		opts   []contract.Option
		want   error
	}{
		"bad method": {
			method: "FETCH", path: "/users", opts: []contract.Option{ok200()},
			want: contract.ErrInvalidMethod,
		},
		"no leading slash": {
			method: "GET", path: "users", opts: []contract.Option{ok200()},
			want: contract.ErrInvalidTemplate,
		},
		"empty segment": {
			method: "GET", path: "/users//x", opts: []contract.Option{ok200()},
			want: contract.ErrInvalidTemplate,
		},
		"trailing slash": {
			method: "GET", path: "/users/", opts: []contract.Option{ok200()},
			want: contract.ErrInvalidTemplate,
		},
		"bad param name": {
			method: "GET", path: "/users/{1d}", opts: []contract.Option{ok200()},
			want: contract.ErrInvalidTemplate,
		},
		"partial param": {
			method: "GET", path: "/users/x{id}", opts: []contract.Option{ok200()},
			want: contract.ErrInvalidTemplate,
		},
		"repeated param": {
			method: "GET", path: "/a/{id}/b/{id}",
			opts: []contract.Option{contract.WithPathParams(user.Pick("id")), ok200()},
			want: contract.ErrInvalidTemplate,
		},
		"param without schema": {
			method: "GET", path: "/users/{id}", opts: []contract.Option{ok200()},
			want: contract.ErrParamMismatch,
		},
		"schema without param": {
			method: "GET", path: "/users",
			opts: []contract.Option{contract.WithPathParams(user.Pick("id")), ok200()},
			want: contract.ErrParamMismatch,
		},
		"param name differs": {
			method: "GET", path: "/users/{uid}",
			opts: []contract.Option{contract.WithPathParams(user.Pick("id")), ok200()},
			want: contract.ErrParamMismatch,
		},
		"no responses": {
			method: "GET", path: "/users",
			want: contract.ErrNoResponses,
		},
		"status out of range": {
			method: "GET", path: "/users",
			opts: []contract.Option{contract.WithResponse(600, "", user)},
			want: contract.ErrInvalidResponse,
		},
		"missing schema": {
			method: "GET", path: "/users",
			opts: []contract.Option{contract.WithResponse(http.StatusOK, "", nil)},
			want: contract.ErrInvalidResponse,
		},
		"schema on 204": {
			method: "DELETE", path: "/users",
			opts: []contract.Option{contract.WithResponse(http.StatusNoContent, "", user)},
			want: contract.ErrInvalidResponse,
		},
		"duplicate status": {
			method: "GET", path: "/users",
			opts: []contract.Option{ok200(), ok200()},
			want: contract.ErrInvalidResponse,
		},
		"type for undeclared status": {
			method: "GET", path: "/users",
			opts: []contract.Option{ok200(), contract.WithResponseType(http.StatusCreated, contract.ContentTypeYAML)},
			want: contract.ErrInvalidResponse,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := contract.NewBinder()
			c, err := b.Bind(tc.method, tc.path, tc.opts...)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, c)
			assert.Empty(t, b.Contracts())
		})
	}
}

func TestBind_conflict(t *testing.T) {
	t.Parallel()

	b := contract.NewBinder()
	b.MustBind(http.MethodGet, "/users/{id}", contract.WithPathParams(user.Pick("id")), ok200())

	_, err := b.Bind(http.MethodGet, "/users/{id}", contract.WithPathParams(user.Pick("id")), ok200())
	require.ErrorIs(t, err, contract.ErrConflict)

	renamed := schema.Object(schema.Field("uid", schema.String()))
	_, err = b.Bind(http.MethodGet, "/users/{uid}", contract.WithPathParams(renamed), ok200())
	require.ErrorIs(t, err, contract.ErrConflict, "parameter names do not distinguish shapes")

	_, err = b.Bind(http.MethodGet, "/people", ok200(), contract.WithOperationID("getUsersById"))
	require.ErrorIs(t, err, contract.ErrConflict, "operation ids are unique")

	_, err = b.Bind(http.MethodDelete, "/users/{id}",
		contract.WithPathParams(user.Pick("id")),
		contract.WithResponse(http.StatusNoContent, "", nil),
	)
	require.NoError(t, err, "another method on the same path is fine")

	assert.Len(t, b.Contracts(), 2)
}

func TestMustBind_panics(t *testing.T) {
	t.Parallel()

	b := contract.NewBinder()
	b.MustBind(http.MethodGet, "/users", ok200())

	assert.Panics(t, func() { b.MustBind(http.MethodGet, "/users", ok200()) })
}

func TestErrorSchema(t *testing.T) {
	t.Parallel()

	res := schema.Check(contract.ErrorSchema, contract.ErrorBody{Error: contract.KindNotFound, Message: "User not found"})
	assert.True(t, res.OK(), "issues: %v", res.Issues())

	res = schema.Check(contract.ErrorSchema, contract.ErrorBody{
		Error:  contract.KindInvalidInput,
		Issues: []schema.Issue{{Path: "name", Code: schema.CodeRequired, Message: "is required"}},
	})
	assert.True(t, res.OK(), "issues: %v", res.Issues())

	res = schema.Check(contract.ErrorSchema, contract.ErrorBody{})
	assert.False(t, res.OK())
}
