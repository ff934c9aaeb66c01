package shared

import (
	"context"

	"github.com/Guyuepp/go-clean-social/domain"
)

// LoadAuthors fetches the distinct users in ids with one query and indexes
// them by id. Unknown ids are simply absent from the result.
func LoadAuthors(ctx context.Context, userRepo domain.UserRepository, ids []int64) (map[int64]domain.User, error) {
	res := make(map[int64]domain.User, len(ids))
	unique := UniqueIDs(ids)
	if len(unique) == 0 {
		return res, nil
	}

	users, err := userRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		res[u.ID] = u
	}
	return res, nil
}

// UniqueIDs drops duplicates and keeps first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// AuthorOf returns a pointer to the author of id, nil when unknown.
func AuthorOf(authors map[int64]domain.User, id int64) *domain.User {
	u, ok := authors[id]
	if !ok {
		return nil
	}
	return &u
}
