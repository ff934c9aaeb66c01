package follow_test

import (
	"context"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/usecase/follow"
	"github.com/Guyuepp/go-clean-social/internal/usecase/usecasetest"
)

func TestToggle(t *testing.T) {
	st := usecasetest.NewStore()
	alice := st.AddUser(domain.User{Name: faker.Name(), Username: "alice"})
	bob := st.AddUser(domain.User{Name: faker.Name(), Username: "bob"})
	svc := follow.NewService(st.Follows(), st.Users())

	t.Run("self follow is rejected", func(t *testing.T) {
		_, err := svc.Toggle(context.TODO(), alice.ID, alice.ID)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Toggle(context.TODO(), alice.ID, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("follow then unfollow", func(t *testing.T) {
		following, err := svc.Toggle(context.TODO(), alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		following, err = svc.Toggle(context.TODO(), alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})
}

func TestFollowersAndFollowings(t *testing.T) {
	st := usecasetest.NewStore()
	alice := st.AddUser(domain.User{Username: "alice"})
	bob := st.AddUser(domain.User{Username: "bob"})
	carol := st.AddUser(domain.User{Username: "carol"})
	st.AddFollow(bob.ID, alice.ID)
	st.AddFollow(carol.ID, alice.ID)
	st.AddFollow(alice.ID, carol.ID)
	svc := follow.NewService(st.Follows(), st.Users())

	page, err := svc.Followers(context.TODO(), "alice", domain.NewPagination(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "carol", page.Users[0].Username, "newest follower first")
	assert.Equal(t, "bob", page.Users[1].Username)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, int64(1), page.TotalPages)

	page, err = svc.Followers(context.TODO(), "alice", domain.NewPagination(2, 1))
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "bob", page.Users[0].Username)
	assert.Equal(t, int64(2), page.TotalPages)

	page, err = svc.Followings(context.TODO(), "alice", domain.NewPagination(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, carol.ID, page.Users[0].ID)

	page, err = svc.Followings(context.TODO(), "bob", domain.NewPagination(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, page.Users)
	assert.Empty(t, page.Users)

	_, err = svc.Followers(context.TODO(), "nobody", domain.NewPagination(1, 10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
