package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Queues: []Queue{{ID: 1, Name: "Suporte Técnico"}, {ID: 2, Name: "Cancelamentos"}},
		Tags:   []Tag{{ID: 10, Name: "VIP"}},
		Users:  []User{{ID: 7, Name: "Ana"}},
	}
}

func TestSnapshotLookupsIgnoreCase(t *testing.T) {
	s := testSnapshot()

	q := s.QueueByName("suporte técnico")
	assert.NotNil(t, q)
	assert.Equal(t, 1, q.ID)
	assert.Nil(t, s.QueueByName("Inexistente"))

	tag := s.TagByName("vip")
	assert.NotNil(t, tag)
	assert.Equal(t, 10, tag.ID)

	u := s.UserByName("ANA")
	assert.NotNil(t, u)
	assert.Equal(t, 7, u.ID)
}

func TestSnapshotNamesPreserveOrder(t *testing.T) {
	s := testSnapshot()
	assert.Equal(t, []string{"Suporte Técnico", "Cancelamentos"}, s.QueueNames())
	assert.Equal(t, []string{"VIP"}, s.TagNames())
	assert.Equal(t, []string{"Ana"}, s.UserNames())
}
