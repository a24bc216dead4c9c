package model

import (
	"time"

	"esanspool/internal/domain/entity"
)

// UserDoc is the Firestore document shape of an account.
type UserDoc struct {
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	Role         string    `firestore:"role"`
	FirstName    string    `firestore:"firstName"`
	LastName     string    `firestore:"lastName"`
	Phone        string    `firestore:"phone"`
	City         string    `firestore:"city"`
	District     string    `firestore:"district"`
	Neighborhood string    `firestore:"neighborhood"`
	Address      string    `firestore:"address"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// UserDocFromEntity converts a domain user into its document form.
func UserDocFromEntity(u *entity.User) *UserDoc {
	return &UserDoc{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		City:         u.City,
		District:     u.District,
		Neighborhood: u.Neighborhood,
		Address:      u.Address,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToEntity converts the document back into a domain user. Unknown role
// strings fall back to the regular user role.
func (d *UserDoc) ToEntity(id string) *entity.User {
	return &entity.User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         entity.RoleFromString(d.Role),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		City:         d.City,
		District:     d.District,
		Neighborhood: d.Neighborhood,
		Address:      d.Address,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
