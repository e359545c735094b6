package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolsCoverEveryLookup(t *testing.T) {
	tools := Tools()
	assert.Len(t, tools, 4)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		assert.Equal(t, "function", tool.Type)
		assert.NotEmpty(t, tool.Description)
		assert.Contains(t, tool.Parameters, "properties")
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, names,
		[]string{"get_customer_by_email", "get_customer_by_phone", "get_order", "check_inventory"})
}

func TestInstructionsAndGreetingNonEmpty(t *testing.T) {
	assert.NotEmpty(t, Instructions)
	assert.NotEmpty(t, Greeting)
}
