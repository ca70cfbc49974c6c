package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
)

func TestCan(t *testing.T) {
	admin := &domain.User{Role: domain.RoleAdmin}
	member := &domain.User{Role: domain.RoleMember}

	tests := []struct {
		action Action
		kind   Kind
		anon   bool
		member bool
		admin  bool
	}{
		{ActionRead, KindBook, true, true, true},
		{ActionRead, KindAuthor, true, true, true},
		{ActionCreate, KindBook, false, true, true},
		{ActionCreate, KindAuthor, false, true, true},
		{ActionUpdate, KindAuthor, false, true, true},
		{ActionUpdate, KindBook, false, false, true},
		{ActionDelete, KindBook, false, false, true},
		{ActionDelete, KindAuthor, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.action)+"_"+string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.anon, Can(nil, tt.action, tt.kind), "anonymous")
			assert.Equal(t, tt.member, Can(member, tt.action, tt.kind), "member")
			assert.Equal(t, tt.admin, Can(admin, tt.action, tt.kind), "admin")
		})
	}
}

func TestAuthorize_ErrorKinds(t *testing.T) {
	member := &domain.User{Role: domain.RoleMember}

	assert.NoError(t, Authorize(nil, ActionRead, KindBook))

	err := Authorize(nil, ActionCreate, KindBook)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	err = Authorize(member, ActionDelete, KindBook)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.NotErrorIs(t, err, domainerrors.ErrUnauthorized)

	assert.NoError(t, Authorize(member, ActionUpdate, KindAuthor))
}
