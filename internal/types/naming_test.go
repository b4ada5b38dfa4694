package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceNaming(t *testing.T) {
	cases := []struct {
		in, file, typ string
	}{
		{"task", "task", "Task"},
		{"Task", "task", "Task"},
		{"BlogPost", "blog_post", "BlogPost"},
		{"blog post", "blog_post", "BlogPost"},
		{" order-item ", "order_item", "OrderItem"},
		{"v2Item", "v2_item", "V2Item"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.file, ResourceFile(tc.in), tc.in)
		assert.Equal(t, tc.typ, ResourceType(tc.in), tc.in)
	}
}

func TestResourcePlural(t *testing.T) {
	assert.Equal(t, "tasks", ResourcePlural("task"))
	assert.Equal(t, "categories", ResourcePlural("Category"))
	assert.Equal(t, "boxes", ResourcePlural("box"))
	assert.Equal(t, "keys", ResourcePlural("key"))
	assert.Equal(t, "blog_posts", ResourcePlural("BlogPost"))
}
