package schema_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/usersapi/schema"
)

func TestOpenAPI_object(t *testing.T) {
	t.Parallel()

	s := schema.Object(
		schema.Field("id", schema.String().Example("123").Describe("User ID")),
		schema.Field("name", schema.String().Min(1).Max(100)),
		schema.Field("email", schema.String().Email()),
		schema.Field("age", schema.Optional(schema.Int().Min(0).Max(150).Example(25))),
		schema.Field("createdAt", schema.String().DateTime()),
		schema.Field("tags", schema.Array(schema.String().Enum("a", "b")).Max(2)),
	).Describe("A user")

	out := s.OpenAPI()

	assert.True(t, out.Type.Is(openapi3.TypeObject))
	assert.Equal(t, "A user", out.Description)
	assert.Equal(t, []string{"id", "name", "email", "createdAt", "tags"}, out.Required)

	id := out.Properties["id"].Value
	assert.True(t, id.Type.Is(openapi3.TypeString))
	assert.Equal(t, "123", id.Example)
	assert.Equal(t, "User ID", id.Description)

	name := out.Properties["name"].Value
	assert.Equal(t, uint64(1), name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(100), *name.MaxLength)

	assert.Equal(t, "email", out.Properties["email"].Value.Format)
	assert.Equal(t, "date-time", out.Properties["createdAt"].Value.Format)

	age := out.Properties["age"].Value
	assert.True(t, age.Type.Is(openapi3.TypeInteger))
	require.NotNil(t, age.Min)
	require.NotNil(t, age.Max)
	assert.InDelta(t, 0, *age.Min, 0)
	assert.InDelta(t, 150, *age.Max, 0)
	assert.Equal(t, 25, age.Example)

	tags := out.Properties["tags"].Value
	assert.True(t, tags.Type.Is(openapi3.TypeArray))
	require.NotNil(t, tags.MaxItems)
	assert.Equal(t, uint64(2), *tags.MaxItems)
	assert.Equal(t, []any{"a", "b"}, tags.Items.Value.Enum)

	require.NoError(t, out.Validate(context.Background()))
}

func TestOpenAPI_composites(t *testing.T) {
	t.Parallel()

	lit := schema.Literal("users").OpenAPI()
	assert.True(t, lit.Type.Is(openapi3.TypeString))
	assert.Equal(t, []any{"users"}, lit.Enum)

	union := schema.Union(schema.String(), schema.Bool()).OpenAPI()
	require.Len(t, union.AnyOf, 2)
	assert.True(t, union.AnyOf[1].Value.Type.Is(openapi3.TypeBoolean))

	num := schema.Number().Min(0.5).OpenAPI()
	assert.True(t, num.Type.Is(openapi3.TypeNumber))
	assert.InDelta(t, 0.5, *num.Min, 0)
}
