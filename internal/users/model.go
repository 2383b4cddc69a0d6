package users

import "github.com/bjaus/usersapi/schema"

// User is the stored and served form of a user.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       *int   `json:"age,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// NewUser holds the client-supplied fields of a user.
type NewUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// List is the body of the list endpoint.
type List struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// Schema validates User.
var Schema = schema.Object(
	schema.Field("id", schema.String().
		Describe("User ID").
		Example("123")),
	schema.Field("name", schema.String().Min(1).Max(100).
		Describe("User name").
		Example("山田太郎")),
	schema.Field("email", schema.String().Email().
		Describe("Email address").
		Example("yamada@example.com")),
	schema.Field("age", schema.Optional(schema.Int().Min(0).Max(150).
		Describe("Age in years").
		Example(25))),
	schema.Field("createdAt", schema.String().DateTime().
		Describe("Creation time").
		Example("2025-01-01T00:00:00Z")),
).Describe("A user")

// NewUserSchema validates NewUser: a user without its server-assigned
// fields.
var NewUserSchema = Schema.Omit("id", "createdAt").Describe("Fields of a new user")

// IDParams validates the path of single-user endpoints.
var IDParams = Schema.Pick("id")

// ListSchema validates List.
var ListSchema = schema.Object(
	schema.Field("users", schema.Array(Schema).Describe("The users")),
	schema.Field("total", schema.Int().Min(0).Describe("Number of users").Example(10)),
).Describe("All users")
