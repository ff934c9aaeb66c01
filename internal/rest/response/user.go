package response

import "github.com/Guyuepp/go-clean-social/domain"

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func NewUserFromDomain(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

// FollowList is the body of a followers or followings listing.
type FollowList struct {
	Users      []*User    `json:"users"`
	Pagination Pagination `json:"pagination"`
}

func NewFollowListFromDomain(p domain.FollowPage, limit int64) FollowList {
	users := make([]*User, len(p.Users))
	for i := range p.Users {
		users[i] = NewUserFromDomain(&p.Users[i])
	}
	return FollowList{
		Users:      users,
		Pagination: NewPagination(p.Page, limit, p.TotalPages, p.TotalCount),
	}
}
