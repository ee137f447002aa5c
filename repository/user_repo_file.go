package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jyotikabilling/models"
)

type FileUserRepo struct {
	Store *FileStore
}

func NewFileUserRepo(store *FileStore) *FileUserRepo {
	return &FileUserRepo{Store: store}
}

func (r *FileUserRepo) CreateUser(_ context.Context, user *models.AppUser) error {
	return r.Store.update(func(d *fileData) error {
		for _, u := range d.Users {
			if strings.EqualFold(u.Email, user.Email) {
				return ErrEmailExists
			}
		}
		user.ID = uuid.NewString()
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}
		d.Users = append(d.Users, *user)
		return nil
	})
}

func (r *FileUserRepo) GetUserByEmail(_ context.Context, email string) (*models.AppUser, error) {
	var found *models.AppUser
	r.Store.view(func(d *fileData) {
		for _, u := range d.Users {
			if strings.EqualFold(u.Email, email) {
				u := u
				found = &u
				return
			}
		}
	})
	return found, nil
}
