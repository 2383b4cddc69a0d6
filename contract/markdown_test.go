package contract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/usersapi/contract"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	md := exportBinder(t).Markdown()

	assert.True(t, strings.HasPrefix(md, "# members 2.1.0\n\nMember directory\n\n"), md)
	assert.Contains(t, md, "| Method | Path | Operation | Summary | Input | Responses |")
	assert.Contains(t, md, "| GET | `/members` | getMembers | List members | query | 200, 400 |")
	assert.Contains(t, md, "| GET | `/members/{id}` | getMembersById | _(deprecated)_ | path | 200, 400, 404 |")
	assert.Contains(t, md, "| POST | `/members` | createMember |  | body (application/json, application/yaml) | 201, 400 |")
	assert.Contains(t, md, "| DELETE | `/members/{id}` | deleteMembersById |  | path | 204, 400 |")
}

func TestMarkdown_empty(t *testing.T) {
	t.Parallel()

	md := contract.NewBinder(contract.WithTitle("x"), contract.WithVersion("1")).Markdown()

	assert.Equal(t, "# x 1\n\n_No routes bound._\n", md)
}
